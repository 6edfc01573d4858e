// Package tokens persists the single token pair that represents the
// logged-in session.
//
// A store is a durable slot under one fixed name: Save overwrites whatever
// was there, Clear empties it, and an empty slot at startup means the user
// must log in again. There is no encryption and no expiry bookkeeping; the
// pair is opaque to us.
package tokens

import (
	"context"

	"bonnetje/internal/core"
)

// SlotName is the fixed key the token pair lives under, regardless of backend.
const SlotName = "ah_tokens"

// Store is the port for token persistence.
type Store interface {
	// Load returns the stored pair, or (nil, nil) when the slot is empty.
	Load(ctx context.Context) (*core.TokenPair, error)

	// Save overwrites the slot with the given pair.
	Save(ctx context.Context, pair *core.TokenPair) error

	// Clear empties the slot; a subsequent Load returns absent.
	Clear(ctx context.Context) error
}
