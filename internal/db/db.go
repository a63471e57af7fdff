package db

import (
	"context"
	"fmt"
	"time"

	"checadora/internal/config"
	"checadora/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	*pgxpool.Pool
}

func New(config config.DatabaseConfig) (*DB, error) {
	// Create a configuration object
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Configure connection pool and statement cache
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &DB{pool}, nil
}

// UpsertPlant registers or renames a plant.
func (db *DB) UpsertPlant(ctx context.Context, plant *models.Plant) error {
	query := `
		INSERT INTO plants (id, name, last_sync)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	_, err := db.Exec(ctx, query, plant.ID, plant.Name, plant.LastSync)
	return err
}

// SetPlantLastSync records a completed sync cycle for a plant.
func (db *DB) SetPlantLastSync(ctx context.Context, plantID string, at time.Time) error {
	query := `
		UPDATE plants
		SET last_sync = $1
		WHERE id = $2`

	_, err := db.Exec(ctx, query, at, plantID)
	return err
}

// GetEmployeeByCode retrieves an employee by badge code.
func (db *DB) GetEmployeeByCode(ctx context.Context, code string) (*models.Employee, error) {
	query := `
		SELECT id, code, full_name, active, created_at
		FROM employees
		WHERE code = $1`

	emp := &models.Employee{}
	err := db.QueryRow(ctx, query, code).Scan(
		&emp.ID,
		&emp.Code,
		&emp.FullName,
		&emp.Active,
		&emp.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// UpsertEmployee inserts a roster entry or refreshes its name and
// active flag. The badge code is the cross-plant identity.
func (db *DB) UpsertEmployee(ctx context.Context, emp *models.Employee) error {
	query := `
		INSERT INTO employees (id, code, full_name, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET full_name = EXCLUDED.full_name, active = EXCLUDED.active`

	_, err := db.Exec(ctx, query,
		emp.ID.String(),
		emp.Code,
		emp.FullName,
		emp.Active,
		emp.CreatedAt,
	)
	return err
}

// ListEmployees returns all active employees ordered by code.
func (db *DB) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	query := `
		SELECT id, code, full_name, active, created_at
		FROM employees
		WHERE active
		ORDER BY code`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		emp := &models.Employee{}
		err := rows.Scan(&emp.ID, &emp.Code, &emp.FullName, &emp.Active, &emp.CreatedAt)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
