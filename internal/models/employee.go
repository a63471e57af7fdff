package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a person known to at least one plant roster. The badge
// code is the cross-plant identity; plants that share workers report
// the same code.
type Employee struct {
	ID        uuid.UUID `db:"id"`
	Code      string    `db:"code"`
	FullName  string    `db:"full_name"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

// Plant is one independently operated time-clock installation.
type Plant struct {
	ID       string    `db:"id"`
	Name     string    `db:"name"`
	LastSync time.Time `db:"last_sync"`
}
