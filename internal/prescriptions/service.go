// Package prescriptions accepts prescription submissions, expands them into
// dose reminders and hands the new batch to delivery.
package prescriptions

import (
	"context"
	"fmt"

	"github.com/wolfman30/medreminder/internal/delivery"
	"github.com/wolfman30/medreminder/internal/messaging"
	"github.com/wolfman30/medreminder/internal/observability/metrics"
	"github.com/wolfman30/medreminder/internal/schedule"
	"github.com/wolfman30/medreminder/pkg/logging"
)

// Appender stores a freshly expanded batch.
type Appender interface {
	Append(batch []schedule.Reminder)
}

// Dispatcher delivers a freshly expanded batch.
type Dispatcher interface {
	Dispatch(ctx context.Context, batch []schedule.Reminder) delivery.Summary
}

// Result is what a successful submission produced.
type Result struct {
	Reminders []schedule.Reminder `json:"reminders"`
	Count     int                 `json:"count"`
	Delivery  delivery.Summary    `json:"delivery"`
}

// Service runs the submission pipeline.
type Service struct {
	store      Appender
	dispatcher Dispatcher
	metrics    *metrics.ReminderMetrics
	logger     *logging.Logger
}

// NewService creates a submission service. dispatcher may be nil.
func NewService(store Appender, dispatcher Dispatcher, logger *logging.Logger) *Service {
	if store == nil {
		panic("prescriptions: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, dispatcher: dispatcher, logger: logger}
}

// WithMetrics attaches counters.
func (s *Service) WithMetrics(m *metrics.ReminderMetrics) *Service {
	s.metrics = m
	return s
}

// Submit validates the form, expands it, stores the batch and then
// dispatches it. Invalid input returns schedule.FieldErrors and leaves the
// store untouched.
func (s *Service) Submit(ctx context.Context, sub schedule.Submission) (*Result, error) {
	req, err := sub.Validate()
	if err != nil {
		return nil, err
	}
	req.ContactNumber = messaging.NormalizeE164(req.ContactNumber)
	if req.ContactNumber == "" {
		return nil, schedule.FieldErrors{schedule.FieldPhone: "Phone number must contain digits"}
	}

	batch, err := schedule.Expand(req)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: expand: %w", err)
	}
	s.metrics.ObserveExpanded(req.Frequency, len(batch))

	s.store.Append(batch)
	s.logger.Info("prescription added",
		"medicine", req.Medicine,
		"frequency", req.Frequency,
		"days", req.DurationDays,
		"reminders", len(batch),
	)

	result := &Result{Reminders: batch, Count: len(batch)}
	if s.dispatcher != nil {
		result.Delivery = s.dispatcher.Dispatch(ctx, batch)
	}
	return result, nil
}
