package remote

import (
	"context"

	"github.com/claude/fitlog/internal/models"
)

// Store is the remote "workouts" collection the session store reconciles
// against. Implementations must order FetchAll results by date descending.
//
// All methods are best-effort from the store's perspective: a returned
// error marks the item pending locally and is never surfaced to the
// caller of a store mutation.
type Store interface {
	// FetchAll returns every session for the collection, newest date first.
	FetchAll(ctx context.Context) ([]models.WorkoutSession, error)
	// Insert writes one session row, stamped with userID when non-empty.
	// Inserts are idempotent by id so a pending retry cannot duplicate.
	Insert(ctx context.Context, session models.WorkoutSession, userID string) error
	// Update rewrites date, exercises and duration for an existing id.
	Update(ctx context.Context, session models.WorkoutSession) error
	// Delete removes the row with the given id. Deleting an absent id is
	// not an error.
	Delete(ctx context.Context, id string) error
}
