package delivery

import (
	"sync"
	"time"

	"github.com/wolfman30/medreminder/internal/observability/metrics"
	"github.com/wolfman30/medreminder/pkg/logging"
)

// TriggerScheduler arms one deferred alert per dose. Triggers whose time has
// already passed are skipped, never fired late. Permission is checked when a
// trigger fires, not when it is armed.
type TriggerScheduler struct {
	clock      Clock
	permission Permission
	alerter    Alerter
	metrics    *metrics.ReminderMetrics
	logger     *logging.Logger

	mu      sync.Mutex
	nextID  uint64
	timers  map[uint64]Timer
	stopped bool
}

// NewTriggerScheduler creates a scheduler. A nil clock uses RealClock.
func NewTriggerScheduler(clock Clock, permission Permission, alerter Alerter, logger *logging.Logger) *TriggerScheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if alerter == nil {
		alerter = NewLogAlerter(logger)
	}
	return &TriggerScheduler{
		clock:      clock,
		permission: permission,
		alerter:    alerter,
		logger:     logger,
		timers:     make(map[uint64]Timer),
	}
}

// WithMetrics attaches counters.
func (s *TriggerScheduler) WithMetrics(m *metrics.ReminderMetrics) *TriggerScheduler {
	s.metrics = m
	return s
}

// Arm schedules alert for at. It reports false when at is not in the future.
func (s *TriggerScheduler) Arm(at time.Time, alert Alert) bool {
	delay := at.Sub(s.clock.Now())
	if delay <= 0 {
		s.metrics.ObserveTrigger(metrics.TriggerSkipped)
		s.logger.Debug("trigger skipped, time already passed",
			"reminder_id", alert.ReminderID,
			"at", at.Format(time.RFC3339),
		)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	id := s.nextID
	s.nextID++
	s.timers[id] = s.clock.AfterFunc(delay, func() { s.fire(id, alert) })
	s.metrics.ObserveTrigger(metrics.TriggerArmed)
	return true
}

func (s *TriggerScheduler) fire(id uint64, alert Alert) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	if s.permission == nil || !s.permission.Granted() {
		s.metrics.ObserveTrigger(metrics.TriggerSuppressed)
		s.logger.Info("dose alert suppressed, permission not granted", "reminder_id", alert.ReminderID)
		return
	}
	s.metrics.ObserveTrigger(metrics.TriggerFired)
	s.alerter.Notify(alert)
}

// Pending returns how many armed triggers have not fired yet.
func (s *TriggerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every armed trigger. It only runs on process shutdown.
func (s *TriggerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.stopped = true
}
