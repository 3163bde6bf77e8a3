package storage

import (
	"context"
	"time"
)

// DeliveryLogEntry records the outcome of one dispatch attempt.
type DeliveryLogEntry struct {
	ID         string
	Kind       string
	Subject    string
	Recipients int
	Status     string // "sent" or "failed"
	ErrorMsg   string
	CreatedAt  time.Time
}

// DeliveryLogStore persists dispatch outcomes for observability. Writes are
// best-effort; a failing log write never fails a notification.
type DeliveryLogStore interface {
	LogDelivery(ctx context.Context, entry DeliveryLogEntry) error
	ListDeliveries(ctx context.Context, limit int) ([]DeliveryLogEntry, error)
}
