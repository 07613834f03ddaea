package service

import (
	"context"
	"fmt"

	"vehicle-request-api/internal/repository"
)

// DefaultTicketPrefix is used when no prefix is configured.
const DefaultTicketPrefix = "GA-TR-"

// FormatTicketNumber renders prefix followed by n padded to at least two
// digits: GA-TR-01, GA-TR-10, GA-TR-100.
func FormatTicketNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%02d", prefix, n)
}

// TicketNumberer derives the next ticket number from the stored request
// count and the last number issued. Both reads should run inside the
// transaction that inserts the request and calls Commit.
type TicketNumberer struct {
	requests repository.VehicleRequestRepository
	counters repository.TicketCounterRepository
	prefix   string
}

func NewTicketNumberer(requests repository.VehicleRequestRepository, counters repository.TicketCounterRepository, prefix string) *TicketNumberer {
	if prefix == "" {
		prefix = DefaultTicketPrefix
	}
	return &TicketNumberer{requests: requests, counters: counters, prefix: prefix}
}

// Next returns the next ticket number and its numeric part. No lock is
// taken; two callers may receive the same number and the unique index on
// ticket_number rejects the second insert.
func (t *TicketNumberer) Next(ctx context.Context) (string, int64, error) {
	count, err := t.requests.Count(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("failed to count vehicle requests: %w", err)
	}
	last, err := t.counters.LastNumber(ctx, t.prefix)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read ticket counter: %w", err)
	}
	n := max(count, last) + 1
	return FormatTicketNumber(t.prefix, n), n, nil
}

// Commit records n as the last issued number.
func (t *TicketNumberer) Commit(ctx context.Context, n int64) error {
	if err := t.counters.SaveLastNumber(ctx, t.prefix, n); err != nil {
		return fmt.Errorf("failed to save ticket counter: %w", err)
	}
	return nil
}
