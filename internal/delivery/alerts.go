package delivery

import (
	"time"

	"github.com/wolfman30/medreminder/pkg/logging"
)

// Alert is the local notification shown when a dose is due. Its content is
// fixed when the trigger is armed.
type Alert struct {
	ReminderID string    `json:"reminderId"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Icon       string    `json:"icon"`
	At         time.Time `json:"at"`
}

// Alerter surfaces a local alert.
type Alerter interface {
	Notify(alert Alert)
}

// LogAlerter writes alerts to the log. It is used when no client channel is
// configured.
type LogAlerter struct {
	logger *logging.Logger
}

// NewLogAlerter creates a log-only alerter.
func NewLogAlerter(logger *logging.Logger) *LogAlerter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogAlerter{logger: logger}
}

func (a *LogAlerter) Notify(alert Alert) {
	a.logger.Info("dose alert",
		"reminder_id", alert.ReminderID,
		"title", alert.Title,
		"at", alert.At.Format(time.RFC3339),
	)
}
