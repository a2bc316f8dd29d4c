package core

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Review is the central entity of the domain.
// Identity (ID) and CreatedAt are assigned once at creation and survive
// soft-delete and restore.
type Review struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Live reports whether the review is visible in default queries.
func (r Review) Live() bool {
	return r.DeletedAt == nil
}

// NewID returns a fresh review identifier.
// ULIDs are ordered by create time, so the natural order of ids from the
// same process follows insertion order.
func NewID() string {
	return ulid.Make().String()
}

// Patch describes a partial update to a review.
// Nil pointer fields are left untouched. SetDeletedAt distinguishes
// "leave DeletedAt alone" from "set it to DeletedAt" (a nil DeletedAt with
// SetDeletedAt true restores a soft-deleted review).
type Patch struct {
	Title        *string
	Content      *string
	SetDeletedAt bool
	DeletedAt    *time.Time
}

// EventKind identifies the type of change broadcast to clients.
type EventKind string

const (
	EventAdded   EventKind = "reviewAdded"
	EventUpdated EventKind = "reviewUpdated"
	EventDeleted EventKind = "reviewDeleted"
)

// Event represents a committed mutation, fanned out to connected clients.
// Added and Updated carry the full post-mutation review; Deleted carries
// only the id. Events are not persisted and carry no ordering identifier
// beyond arrival order at the broker.
type Event struct {
	Kind   EventKind
	Review *Review // set for Added/Updated
	ID     string  // always set
}

func (e Event) String() string {
	return string(e.Kind) + " " + e.ID
}
