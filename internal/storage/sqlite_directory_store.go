package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLiteDirectoryStore implements DirectoryStore backed by SQLite.
type SQLiteDirectoryStore struct {
	db *sql.DB
}

// NewSQLiteDirectoryStore returns a new SQLiteDirectoryStore.
func NewSQLiteDirectoryStore(db *sql.DB) *SQLiteDirectoryStore {
	return &SQLiteDirectoryStore{db: db}
}

// AdminEmails returns the addresses of active administrators holding any of
// the given role ids, ordered by insertion.
func (s *SQLiteDirectoryStore) AdminEmails(ctx context.Context, roleIDs []int) ([]string, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	marks := make([]string, len(roleIDs))
	args := make([]any, len(roleIDs))
	for i, id := range roleIDs {
		marks[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT email FROM admin_contacts
		WHERE active = 1 AND role_id IN (%s)
		ORDER BY id`, strings.Join(marks, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying admin contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scanning admin contact row: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admin contact rows: %w", err)
	}
	return emails, nil
}

// AddContact inserts an administrator record. Used by operational tooling
// and tests to populate the directory.
func (s *SQLiteDirectoryStore) AddContact(ctx context.Context, c AdminContact) error {
	active := 0
	if c.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_contacts (name, email, role_id, active)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Email, c.RoleID, active,
	)
	if err != nil {
		return fmt.Errorf("inserting admin contact: %w", err)
	}
	return nil
}
