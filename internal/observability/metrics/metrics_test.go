package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabel(metric, label, value) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func TestReminderMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReminderMetrics(reg)
	m.ObserveExpanded("twice", 4)
	m.ObserveExpanded("twice", 0)
	m.ObserveTrigger(TriggerArmed)
	m.ObserveTrigger(TriggerArmed)
	m.ObserveTrigger(TriggerSkipped)
	m.ObserveOutbound("sent")
	m.ObserveDrugLookup("hit")

	if got := counterValue(t, reg, "medreminder_schedule_reminders_expanded_total", "frequency", "twice"); got != 4 {
		t.Fatalf("expected 4 expanded, got %v", got)
	}
	if got := counterValue(t, reg, "medreminder_delivery_trigger_total", "outcome", TriggerArmed); got != 2 {
		t.Fatalf("expected 2 armed, got %v", got)
	}
	if got := counterValue(t, reg, "medreminder_delivery_outbound_total", "status", "sent"); got != 1 {
		t.Fatalf("expected 1 sent, got %v", got)
	}
}

func TestReminderMetricsNilSafe(t *testing.T) {
	var m *ReminderMetrics
	m.ObserveExpanded("once", 1)
	m.ObserveTrigger(TriggerFired)
	m.ObserveOutbound("failed")
	m.ObserveDrugLookup("miss")
}
