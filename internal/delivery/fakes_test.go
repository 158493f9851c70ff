package delivery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wolfman30/medreminder/internal/schedule"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due timers in time order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []Alert
}

func (a *recordingAlerter) Notify(alert Alert) {
	a.mu.Lock()
	a.alerts = append(a.alerts, alert)
	a.mu.Unlock()
}

func (a *recordingAlerter) Alerts() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Alert(nil), a.alerts...)
}

type sentMessage struct {
	to   string
	vars map[string]string
}

type stubMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
	hold chan struct{}
}

func (m *stubMessenger) SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error) {
	if m.hold != nil {
		select {
		case <-m.hold:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: to, vars: vars})
	if m.err != nil {
		return "", m.err
	}
	return "SM" + vars["2"], nil
}

func (m *stubMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

var errProvider = errors.New("provider unavailable")

type memRecorder struct {
	mu       sync.Mutex
	statuses map[string]schedule.DeliveryStatus
}

func (r *memRecorder) RecordDelivery(id string, status schedule.DeliveryStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statuses == nil {
		r.statuses = make(map[string]schedule.DeliveryStatus)
	}
	r.statuses[id] = status
}

func (r *memRecorder) Status(id string) schedule.DeliveryStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[id]
}

type memOutcomes struct {
	mu       sync.Mutex
	outcomes []Outcome
	ctxErrs  []error
}

func (o *memOutcomes) RecordOutcome(ctx context.Context, outcome Outcome) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := ctx.Err(); err != nil {
		o.ctxErrs = append(o.ctxErrs, err)
		return err
	}
	o.outcomes = append(o.outcomes, outcome)
	return nil
}
