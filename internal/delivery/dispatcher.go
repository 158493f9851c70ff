package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/medreminder/internal/observability/metrics"
	"github.com/wolfman30/medreminder/internal/schedule"
	"github.com/wolfman30/medreminder/pkg/logging"
)

const (
	alertBody = "Time to take your medicine!"
	alertIcon = "/medicine-icon.png"

	defaultSendTimeout  = 15 * time.Second
	defaultAuditTimeout = 5 * time.Second
)

// ChannelWhatsApp is the channel recorded on outbound delivery outcomes.
const ChannelWhatsApp = "whatsapp"

// Messenger sends a templated outbound message and returns the provider
// reference.
type Messenger interface {
	SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error)
}

// DeliveryRecorder stores the outbound status of a reminder.
type DeliveryRecorder interface {
	RecordDelivery(id string, status schedule.DeliveryStatus)
}

// OutcomeRecorder persists delivery outcomes for audit.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, outcome Outcome) error
}

// Outcome is one delivery attempt.
type Outcome struct {
	ReminderID  string
	Channel     string
	Status      schedule.DeliveryStatus
	ProviderRef string
	Error       string
	At          time.Time
}

// Summary counts what Dispatch did with a batch.
type Summary struct {
	Armed   int `json:"armed"`
	Skipped int `json:"skipped"`
	Queued  int `json:"queued"`
}

// Dispatcher arms local triggers and queues outbound messages for freshly
// created reminders. It never blocks on the outbound channel.
type Dispatcher struct {
	triggers    *TriggerScheduler
	messenger   Messenger
	recorder    DeliveryRecorder
	outcomes    OutcomeRecorder
	metrics     *metrics.ReminderMetrics
	logger      *logging.Logger
	sendTimeout time.Duration

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher. messenger and recorder may be nil.
func NewDispatcher(triggers *TriggerScheduler, messenger Messenger, recorder DeliveryRecorder, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if triggers == nil {
		triggers = NewTriggerScheduler(nil, nil, nil, logger)
	}
	return &Dispatcher{
		triggers:    triggers,
		messenger:   messenger,
		recorder:    recorder,
		logger:      logger,
		sendTimeout: defaultSendTimeout,
	}
}

// WithOutcomes attaches an audit sink.
func (d *Dispatcher) WithOutcomes(o OutcomeRecorder) *Dispatcher {
	d.outcomes = o
	return d
}

// WithMetrics attaches counters.
func (d *Dispatcher) WithMetrics(m *metrics.ReminderMetrics) *Dispatcher {
	d.metrics = m
	return d
}

// WithSendTimeout bounds each outbound attempt.
func (d *Dispatcher) WithSendTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.sendTimeout = timeout
	}
	return d
}

// AlertFor builds the local alert content for a reminder.
func AlertFor(r schedule.Reminder, at time.Time) Alert {
	return Alert{
		ReminderID: r.ID,
		Title:      fmt.Sprintf("Time to take %s %s", r.Medicine, r.Dosage),
		Body:       alertBody,
		Icon:       alertIcon,
		At:         at,
	}
}

// Dispatch handles one batch. Each reminder gets a local trigger when its
// time is still ahead and, when it carries a contact number, one outbound
// message sent in the background.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []schedule.Reminder) Summary {
	var summary Summary
	for _, r := range batch {
		at, err := r.At()
		if err != nil {
			d.logger.Warn("dispatch: unparseable reminder time", "reminder_id", r.ID, "error", err)
			summary.Skipped++
			continue
		}
		if d.triggers.Arm(at, AlertFor(r, at)) {
			summary.Armed++
		} else {
			summary.Skipped++
		}

		if r.ContactNumber == "" || d.messenger == nil {
			d.record(ctx, Outcome{ReminderID: r.ID, Channel: ChannelWhatsApp, Status: schedule.DeliverySkipped})
			continue
		}
		summary.Queued++
		d.wg.Add(1)
		go d.send(context.WithoutCancel(ctx), r)
	}
	return summary
}

func (d *Dispatcher) send(parent context.Context, r schedule.Reminder) {
	defer d.wg.Done()
	ctx, cancel := context.WithTimeout(parent, d.sendTimeout)
	defer cancel()

	vars := map[string]string{"1": r.Medicine, "2": r.Time}
	sid, err := d.messenger.SendTemplate(ctx, r.ContactNumber, vars)
	if err != nil {
		d.logger.Error("dispatch: outbound message failed",
			"reminder_id", r.ID,
			"error", err,
		)
		d.record(parent, Outcome{ReminderID: r.ID, Channel: ChannelWhatsApp, Status: schedule.DeliveryFailed, Error: err.Error()})
		return
	}
	d.logger.Info("dispatch: outbound message sent", "reminder_id", r.ID, "sid", sid)
	d.record(parent, Outcome{ReminderID: r.ID, Channel: ChannelWhatsApp, Status: schedule.DeliverySent, ProviderRef: sid})
}

// record runs after the send deadline may have passed, so the audit write
// gets a deadline of its own.
func (d *Dispatcher) record(ctx context.Context, o Outcome) {
	if o.At.IsZero() {
		o.At = time.Now().UTC()
	}
	d.metrics.ObserveOutbound(string(o.Status))
	if d.recorder != nil {
		d.recorder.RecordDelivery(o.ReminderID, o.Status)
	}
	if d.outcomes != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultAuditTimeout)
		defer cancel()
		if err := d.outcomes.RecordOutcome(ctx, o); err != nil {
			d.logger.Warn("dispatch: audit write failed", "reminder_id", o.ReminderID, "error", err)
		}
	}
}

// Wait blocks until every queued outbound message has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Stop cancels armed triggers.
func (d *Dispatcher) Stop() {
	d.triggers.Stop()
}
