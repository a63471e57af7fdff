package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"checadora/internal/models"
)

// maxRows caps how many anomalies one message lists; the full report
// lives in the validation endpoint.
const maxRows = 15

// Notifier posts validation summaries to an ops Discord channel. Only
// REST sends are used, so the session never opens a gateway connection.
type Notifier struct {
	session   *discordgo.Session
	channelID string
	logger    *zap.Logger
}

func New(token, channelID string, logger *zap.Logger) (*Notifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return &Notifier{
		session:   session,
		channelID: channelID,
		logger:    logger,
	}, nil
}

// SendValidationSummary posts the invalid records of one day. Clean
// days send nothing.
func (n *Notifier) SendValidationSummary(date time.Time, issues []models.ValidationIssue) error {
	var invalid []models.ValidationIssue
	for _, issue := range issues {
		if !issue.Valid {
			invalid = append(invalid, issue)
		}
	}
	if len(invalid) == 0 {
		return nil
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("**Asistencia %s**: %d record(s) need review\n", date.Format("2006-01-02"), len(invalid)))
	msg.WriteString("```\n")
	msg.WriteString(fmt.Sprintf("%-10s %-8s %s\n", "EMPLOYEE", "HOURS", "FLAGS"))
	msg.WriteString(strings.Repeat("-", 60) + "\n")
	for i, issue := range invalid {
		if i == maxRows {
			msg.WriteString(fmt.Sprintf("... and %d more\n", len(invalid)-maxRows))
			break
		}
		msg.WriteString(fmt.Sprintf("%-10s %-8.2f %s\n",
			truncate(issue.EmployeeCode, 10),
			issue.WorkedHours,
			truncate(strings.Join(issue.Flags, "; "), 38),
		))
	}
	msg.WriteString("```")

	if _, err := n.session.ChannelMessageSend(n.channelID, msg.String()); err != nil {
		n.logger.Error("sending validation summary to Discord", zap.Error(err))
		return err
	}
	return nil
}

// Close releases the underlying session.
func (n *Notifier) Close() error {
	return n.session.Close()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
