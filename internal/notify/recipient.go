package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patiolink/notimail/internal/storage"
)

// RecipientSet is an ordered sequence of normalized email addresses with no
// duplicates. Build one through NewRecipientSet or Resolver; an empty set is
// a terminal failure for dispatch.
type RecipientSet []string

// NormalizeAddress trims surrounding whitespace and lower-cases an address.
// Normalization is idempotent.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// NewRecipientSet normalizes the given addresses, drops blanks, and
// deduplicates while preserving first-seen order.
func NewRecipientSet(addrs ...string) RecipientSet {
	seen := make(map[string]struct{}, len(addrs))
	set := make(RecipientSet, 0, len(addrs))
	for _, a := range addrs {
		a = NormalizeAddress(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		set = append(set, a)
	}
	return set
}

// Union returns a new set containing the receiver's addresses followed by
// any addresses from other not already present.
func (s RecipientSet) Union(other RecipientSet) RecipientSet {
	merged := make([]string, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewRecipientSet(merged...)
}

// Resolver turns caller-supplied recipient lists into a RecipientSet,
// falling back to an administrator directory lookup when no explicit
// recipients are given.
type Resolver struct {
	directory storage.DirectoryStore
	roleIDs   []int
	logger    *slog.Logger
}

// NewResolver creates a Resolver querying the given directory store for
// administrators holding any of roleIDs.
func NewResolver(directory storage.DirectoryStore, roleIDs []int, logger *slog.Logger) *Resolver {
	return &Resolver{directory: directory, roleIDs: roleIDs, logger: logger}
}

// Resolve applies the explicit-list-or-directory policy: if explicit
// addresses survive normalization, they are used as-is and no directory
// query is made. Otherwise the administrator directory is queried. An empty
// final set yields ErrNoRecipients.
func (r *Resolver) Resolve(ctx context.Context, explicit []string) (RecipientSet, error) {
	set := NewRecipientSet(explicit...)
	if len(set) > 0 {
		return set, nil
	}

	admins, err := r.directory.AdminEmails(ctx, r.roleIDs)
	if err != nil {
		return nil, err
	}
	set = NewRecipientSet(admins...)
	if len(set) == 0 {
		return nil, ErrNoRecipients
	}
	return set, nil
}

// ResolveWithSubject unions a mandatory subject address (the provider being
// notified) with the administrator directory set. The directory is always
// queried; a query failure degrades to an empty admin list with a warning,
// since the subject address alone still yields a deliverable set.
func (r *Resolver) ResolveWithSubject(ctx context.Context, subject string) (RecipientSet, error) {
	set := NewRecipientSet(subject)

	admins, err := r.directory.AdminEmails(ctx, r.roleIDs)
	if err != nil {
		r.logger.Warn("directory query failed, proceeding without admin recipients",
			slog.Any("error", err))
		admins = nil
	}

	set = set.Union(NewRecipientSet(admins...))
	if len(set) == 0 {
		return nil, ErrNoRecipients
	}
	return set, nil
}
