// Package reminders owns the session's canonical list of dose reminders.
package reminders

import (
	"sync"

	"github.com/wolfman30/medreminder/internal/schedule"
)

// Transform produces the replacement for a stored reminder.
type Transform func(schedule.Reminder) schedule.Reminder

// Store keeps every generated reminder in insertion order. Views read
// snapshots; only the Store mutates records.
type Store struct {
	mu        sync.RWMutex
	reminders []schedule.Reminder
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a batch after all existing reminders, keeping batch order.
// Reminders sharing an ID are not deduplicated.
func (s *Store) Append(batch []schedule.Reminder) {
	if len(batch) == 0 {
		return
	}
	s.mu.Lock()
	s.reminders = append(s.reminders, batch...)
	s.mu.Unlock()
}

// UpdateByIdentity replaces every reminder with the given ID by fn's result.
// A missing ID is a no-op. The identity and the taken flag cannot be undone
// by fn: the ID is restored and a taken reminder stays taken.
// It returns how many records changed.
func (s *Store) UpdateByIdentity(id string, fn Transform) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.reminders {
		if s.reminders[i].ID != id {
			continue
		}
		prev := s.reminders[i]
		next := fn(prev)
		next.ID = prev.ID
		if prev.Taken {
			next.Taken = true
		}
		if next != prev {
			s.reminders[i] = next
			changed++
		}
	}
	return changed
}

// MarkTaken flags a reminder as taken. Marking it again changes nothing.
func (s *Store) MarkTaken(id string) int {
	return s.UpdateByIdentity(id, func(r schedule.Reminder) schedule.Reminder {
		r.Taken = true
		return r
	})
}

// RecordDelivery stores the outbound delivery outcome for a reminder.
func (s *Store) RecordDelivery(id string, status schedule.DeliveryStatus) {
	s.UpdateByIdentity(id, func(r schedule.Reminder) schedule.Reminder {
		r.Delivery = status
		return r
	})
}

// Get returns the first reminder with the given ID.
func (s *Store) Get(id string) (schedule.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reminders {
		if r.ID == id {
			return r, true
		}
	}
	return schedule.Reminder{}, false
}

// Snapshot returns a copy of all reminders in insertion order.
func (s *Store) Snapshot() []schedule.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schedule.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// Len returns the number of stored reminders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reminders)
}
