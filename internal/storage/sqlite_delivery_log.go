package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteDeliveryLogStore implements DeliveryLogStore backed by SQLite.
type SQLiteDeliveryLogStore struct {
	db *sql.DB
}

// NewSQLiteDeliveryLogStore returns a new SQLiteDeliveryLogStore.
func NewSQLiteDeliveryLogStore(db *sql.DB) *SQLiteDeliveryLogStore {
	return &SQLiteDeliveryLogStore{db: db}
}

// LogDelivery inserts a dispatch outcome record into the database.
func (s *SQLiteDeliveryLogStore) LogDelivery(ctx context.Context, entry DeliveryLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_log (id, kind, subject, recipients, status, error_msg, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Kind, entry.Subject, entry.Recipients,
		entry.Status, entry.ErrorMsg, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting delivery log: %w", err)
	}
	return nil
}

// ListDeliveries returns the most recent entries ordered by created_at
// descending.
func (s *SQLiteDeliveryLogStore) ListDeliveries(ctx context.Context, limit int) ([]DeliveryLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, subject, recipients, status, error_msg, created_at
		FROM delivery_log
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying delivery log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []DeliveryLogEntry
	for rows.Next() {
		var e DeliveryLogEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Subject, &e.Recipients,
			&e.Status, &e.ErrorMsg, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning delivery log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating delivery log rows: %w", err)
	}
	return entries, nil
}
