package core

import "context"

// Store defines the contract for persisting reviews.
// Adhering to this interface keeps the core independent of the underlying
// storage mechanism (memory, filesystem, SQL, document database).
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Insert persists a new review. The id must not already exist.
	Insert(ctx context.Context, r Review) error

	// Get retrieves a review by id, soft-deleted ones included.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (Review, error)

	// Update applies mutate to the review with the given id as a single
	// atomic read-modify-write and returns the resulting review.
	// Returns ErrNotFound if the id is unknown; any error returned by
	// mutate aborts the update and is passed through unchanged.
	Update(ctx context.Context, id string, mutate func(Review) (Review, error)) (Review, error)

	// List returns one page of live reviews matching q, plus the total
	// count of matches across all pages. q is assumed validated.
	List(ctx context.Context, q Query) ([]Review, int, error)

	// Initialize ensures the underlying storage is ready (e.g. create
	// directories, load existing records).
	Initialize(ctx context.Context) error
}

// Publisher is the mutation side's view of the event broker.
// Publish must never block and must never fail the originating mutation.
type Publisher interface {
	Publish(e Event)
}
