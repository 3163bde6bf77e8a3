package storage

import "context"

// AdminContact is one administrator record in the contact directory.
type AdminContact struct {
	ID     int64
	Name   string
	Email  string
	RoleID int
	Active bool
}

// DirectoryStore is the administrator contact directory queried when a
// notification has no explicit recipients.
type DirectoryStore interface {
	// AdminEmails returns the addresses of active administrators holding
	// any of the given role ids.
	AdminEmails(ctx context.Context, roleIDs []int) ([]string, error)
}
