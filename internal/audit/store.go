// Package audit persists delivery outcomes to Postgres.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/medreminder/internal/delivery"
	"github.com/wolfman30/medreminder/internal/schedule"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Event is one stored delivery outcome.
type Event struct {
	ID          string                  `json:"id"`
	ReminderID  string                  `json:"reminderId"`
	Channel     string                  `json:"channel"`
	Status      schedule.DeliveryStatus `json:"status"`
	ProviderRef string                  `json:"providerRef,omitempty"`
	Error       string                  `json:"error,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// Store writes to the delivery_events table.
type Store struct {
	db querier
}

var _ delivery.OutcomeRecorder = (*Store)(nil)

// NewStore creates a store on a pgx pool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("audit: pgx pool required")
	}
	return &Store{db: pool}
}

func newStoreWithQuerier(db querier) *Store {
	if db == nil {
		panic("audit: querier required")
	}
	return &Store{db: db}
}

// RecordOutcome inserts one delivery outcome.
func (s *Store) RecordOutcome(ctx context.Context, o delivery.Outcome) error {
	at := o.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	query := `
		INSERT INTO delivery_events (id, reminder_id, channel, status, provider_ref, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.Exec(ctx, query, uuid.NewString(), o.ReminderID, o.Channel, string(o.Status), o.ProviderRef, o.Error, at); err != nil {
		return fmt.Errorf("audit: record outcome: %w", err)
	}
	return nil
}

// ListByReminder returns the outcomes for one reminder, oldest first.
func (s *Store) ListByReminder(ctx context.Context, reminderID string) ([]Event, error) {
	query := `
		SELECT id, reminder_id, channel, status, provider_ref, error, created_at
		FROM delivery_events
		WHERE reminder_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, query, reminderID)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e      Event
			status string
		)
		if err := rows.Scan(&e.ID, &e.ReminderID, &e.Channel, &status, &e.ProviderRef, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		e.Status = schedule.DeliveryStatus(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate events: %w", err)
	}
	return events, nil
}
