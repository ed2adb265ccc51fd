package session

import (
	"context"

	"auracare/internal/domain"
)

// Store persists the two pieces of client-side state: the bearer token and
// the serialized identity. The two are written and removed together; a load
// that finds one without the other, or an identity that no longer decodes,
// reports empty rather than failing. Nothing else is persisted client-side.
type Store interface {
	// Save overwrites both values. No partial-write state is observable to
	// subsequent loads.
	Save(ctx context.Context, identity domain.Identity, token string) error
	// Load returns the persisted session, or ok=false when absent or
	// undecodable. It never fails.
	Load(ctx context.Context) (identity domain.Identity, token string, ok bool)
	// Clear removes both values. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
