package ports

import "context"

// SessionStore tracks anonymous shopper sessions so guest carts can be
// expired. The identity collaborator owns authenticated users; this store is
// only about guest session lifetimes.
type SessionStore interface {
	// Touch creates the session or extends its expiry.
	Touch(ctx context.Context, key string) error
	// Delete removes the session, typically after a merge on login.
	Delete(ctx context.Context, key string) error
	// PurgeExpired deletes expired sessions and returns their keys so the
	// caller can clear the matching guest carts.
	PurgeExpired(ctx context.Context) ([]string, error)
}
