package core

import (
	"context"
	"log/slog"
	"time"
)

// Service handles the business logic for reviews: the mutation path
// (create, update, soft-delete, restore) and the query path (paginated
// snapshots). Every committed mutation publishes exactly one event, after
// the store write returned, so a client can always read back what an event
// announces.
type Service struct {
	store  Store
	pub    Publisher
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a Service over the given store, publishing events to
// pub. A nil logger disables logging.
func NewService(store Store, pub Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:  store,
		pub:    pub,
		logger: logger,
		now:    time.Now,
		newID:  NewID,
	}
}

// Create validates and inserts a new review, then publishes an Added event
// carrying the full record.
func (s *Service) Create(ctx context.Context, title, content string) (Review, error) {
	r := Review{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := validateReview(r); err != nil {
		return Review{}, err
	}

	if err := s.store.Insert(ctx, r); err != nil {
		return Review{}, storeErr("insert", err)
	}

	s.logger.Debug("review created", "id", r.ID)
	s.pub.Publish(Event{Kind: EventAdded, Review: &r, ID: r.ID})
	return r, nil
}

// Update applies a partial change to the review with the given id and
// publishes an Updated event with the post-update record. Soft-deleted
// reviews may be updated; clearing DeletedAt through the patch restores
// them.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Review, error) {
	updated, err := s.store.Update(ctx, id, func(r Review) (Review, error) {
		if p.Title != nil {
			r.Title = *p.Title
		}
		if p.Content != nil {
			r.Content = *p.Content
		}
		if p.SetDeletedAt {
			r.DeletedAt = p.DeletedAt
		}
		if err := validateReview(r); err != nil {
			return Review{}, err
		}
		return r, nil
	})
	if err != nil {
		return Review{}, storeErr("update", err)
	}

	s.logger.Debug("review updated", "id", id)
	s.pub.Publish(Event{Kind: EventUpdated, Review: &updated, ID: id})
	return updated, nil
}

// SoftDelete marks a live review as deleted and publishes a Deleted event
// carrying only the id. Deleting an already soft-deleted review reports
// ErrNotFound, mirroring its absence from default queries.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, id, func(r Review) (Review, error) {
		if !r.Live() {
			return Review{}, ErrNotFound
		}
		now := s.now().UTC()
		r.DeletedAt = &now
		return r, nil
	})
	if err != nil {
		return storeErr("delete", err)
	}

	s.logger.Debug("review soft-deleted", "id", id)
	s.pub.Publish(Event{Kind: EventDeleted, ID: id})
	return nil
}

// Restore clears DeletedAt on a soft-deleted review, making it reappear in
// default queries. It is the undo path for SoftDelete.
func (s *Service) Restore(ctx context.Context, id string) (Review, error) {
	return s.Update(ctx, id, Patch{SetDeletedAt: true})
}

// Get retrieves a single live review. Soft-deleted reviews report
// ErrNotFound rather than being returned.
func (s *Service) Get(ctx context.Context, id string) (Review, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Review{}, storeErr("get", err)
	}
	if !r.Live() {
		return Review{}, ErrNotFound
	}
	return r, nil
}

// List serves one paginated, sorted, search-filtered snapshot of the live
// reviews. A page past the end yields an empty list with the correct
// TotalPages, not an error.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	if err := q.Validate(); err != nil {
		return Page{}, err
	}

	reviews, total, err := s.store.List(ctx, q)
	if err != nil {
		return Page{}, storeErr("list", err)
	}

	return Page{
		Reviews:     reviews,
		TotalPages:  TotalPages(total, q.PageSize),
		CurrentPage: q.Page,
	}, nil
}
