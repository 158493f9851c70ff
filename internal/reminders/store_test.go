package reminders

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/medreminder/internal/schedule"
)

func batch(t *testing.T, medicine, frequency, start string, days int) []schedule.Reminder {
	t.Helper()
	d, err := schedule.ParseDate(start)
	require.NoError(t, err)
	out, err := schedule.Expand(schedule.ExpandRequest{
		Medicine:     medicine,
		Dosage:       "10mg",
		Frequency:    frequency,
		StartDate:    d,
		DurationDays: days,
	})
	require.NoError(t, err)
	return out
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	a := batch(t, "A", schedule.FrequencyTwice, "2024-01-02", 1)
	b := batch(t, "B", schedule.FrequencyOnce, "2024-01-01", 1)
	s.Append(a)
	s.Append(b)
	s.Append(nil)

	got := s.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, a[0].ID, got[0].ID)
	assert.Equal(t, a[1].ID, got[1].ID)
	assert.Equal(t, b[0].ID, got[2].ID)
	assert.Equal(t, 3, s.Len())
}

func TestMarkTaken(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyTwice, "2024-01-01", 1))

	assert.Equal(t, 1, s.MarkTaken("A-2024-01-01-09-00"))
	r, ok := s.Get("A-2024-01-01-09-00")
	require.True(t, ok)
	assert.True(t, r.Taken)

	before := s.Snapshot()
	assert.Equal(t, 0, s.MarkTaken("A-2024-01-01-09-00"), "idempotent")
	assert.Equal(t, before, s.Snapshot())
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyTwice, "2024-01-01", 2))
	before := s.Snapshot()

	assert.Equal(t, 0, s.MarkTaken("missing"))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 4, s.Len())
}

func TestTransformCannotUntakeOrChangeIdentity(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyOnce, "2024-01-01", 1))
	s.MarkTaken("A-2024-01-01-09-00")

	s.UpdateByIdentity("A-2024-01-01-09-00", func(r schedule.Reminder) schedule.Reminder {
		r.Taken = false
		r.ID = "other"
		r.Dosage = "20mg"
		return r
	})
	r, ok := s.Get("A-2024-01-01-09-00")
	require.True(t, ok)
	assert.True(t, r.Taken)
	assert.Equal(t, "20mg", r.Dosage)
}

func TestCollidingIDsAreUpdatedTogether(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyOnce, "2024-01-01", 1))
	s.Append(batch(t, "A", schedule.FrequencyOnce, "2024-01-01", 1))
	require.Equal(t, 2, s.Len())

	assert.Equal(t, 2, s.MarkTaken("A-2024-01-01-09-00"))
	for _, r := range s.Snapshot() {
		assert.True(t, r.Taken)
	}
}

func TestRecordDelivery(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyOnce, "2024-01-01", 1))
	s.RecordDelivery("A-2024-01-01-09-00", schedule.DeliveryFailed)
	r, _ := s.Get("A-2024-01-01-09-00")
	assert.Equal(t, schedule.DeliveryFailed, r.Delivery)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyOnce, "2024-01-01", 1))
	snap := s.Snapshot()
	snap[0].Taken = true
	r, _ := s.Get(snap[0].ID)
	assert.False(t, r.Taken)
}

func TestConcurrentMutation(t *testing.T) {
	s := NewStore()
	s.Append(batch(t, "A", schedule.FrequencyFour, "2024-01-01", 30))
	ids := s.Snapshot()

	var wg sync.WaitGroup
	for _, r := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.MarkTaken(id)
			_ = s.Snapshot()
		}(r.ID)
	}
	wg.Wait()
	for _, r := range s.Snapshot() {
		assert.True(t, r.Taken)
	}
}
