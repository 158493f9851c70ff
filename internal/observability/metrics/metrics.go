package metrics

import "github.com/prometheus/client_golang/prometheus"

// Trigger outcomes.
const (
	TriggerArmed      = "armed"
	TriggerSkipped    = "skipped"
	TriggerFired      = "fired"
	TriggerSuppressed = "suppressed"
)

// ReminderMetrics exposes counters for reminder expansion and delivery.
type ReminderMetrics struct {
	expandedTotal   *prometheus.CounterVec
	triggerTotal    *prometheus.CounterVec
	outboundTotal   *prometheus.CounterVec
	drugLookupTotal *prometheus.CounterVec
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		expandedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medreminder",
			Subsystem: "schedule",
			Name:      "reminders_expanded_total",
			Help:      "Reminders produced by prescription expansion",
		}, []string{"frequency"}),
		triggerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medreminder",
			Subsystem: "delivery",
			Name:      "trigger_total",
			Help:      "Local alert triggers by outcome",
		}, []string{"outcome"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medreminder",
			Subsystem: "delivery",
			Name:      "outbound_total",
			Help:      "Outbound WhatsApp template sends by status",
		}, []string{"status"}),
		drugLookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medreminder",
			Subsystem: "druginfo",
			Name:      "lookup_total",
			Help:      "Drug information lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.expandedTotal, m.triggerTotal, m.outboundTotal, m.drugLookupTotal)
	return m
}

func (m *ReminderMetrics) ObserveExpanded(frequency string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.expandedTotal.WithLabelValues(frequency).Add(float64(count))
}

func (m *ReminderMetrics) ObserveTrigger(outcome string) {
	if m == nil {
		return
	}
	m.triggerTotal.WithLabelValues(outcome).Inc()
}

func (m *ReminderMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *ReminderMetrics) ObserveDrugLookup(result string) {
	if m == nil {
		return
	}
	m.drugLookupTotal.WithLabelValues(result).Inc()
}

// TriggerCounter returns the trigger counter for outcome.
func (m *ReminderMetrics) TriggerCounter(outcome string) prometheus.Counter {
	return m.triggerTotal.WithLabelValues(outcome)
}

// OutboundCounter returns the outbound counter for status.
func (m *ReminderMetrics) OutboundCounter(status string) prometheus.Counter {
	return m.outboundTotal.WithLabelValues(status)
}
