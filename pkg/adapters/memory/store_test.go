package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revio/revio/pkg/adapters/memory"
	"github.com/revio/revio/pkg/core"
)

func seed(t *testing.T, s *memory.Store, n int) []core.Review {
	t.Helper()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []core.Review
	for i := 0; i < n; i++ {
		r := core.Review{
			ID:        core.NewID(),
			Title:     "Review " + string(rune('A'+i)),
			Content:   "Content body number " + string(rune('A'+i)),
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Insert(context.Background(), r))
		out = append(out, r)
	}
	return out
}

func TestStore_InsertGet(t *testing.T) {
	s := memory.NewStore()
	require.NoError(t, s.Initialize(context.Background()))
	seeded := seed(t, s, 2)

	got, err := s.Get(context.Background(), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seeded[0].Title, got.Title)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = s.Insert(context.Background(), seeded[0])
	assert.Error(t, err, "duplicate ids must be rejected")
}

func TestStore_Update(t *testing.T) {
	s := memory.NewStore()
	seeded := seed(t, s, 1)
	ctx := context.Background()

	updated, err := s.Update(ctx, seeded[0].ID, func(r core.Review) (core.Review, error) {
		r.Title = "Renamed"
		return r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	got, err := s.Get(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	// A mutate error aborts the write and passes through unchanged.
	sentinel := errors.New("rejected")
	_, err = s.Update(ctx, seeded[0].ID, func(core.Review) (core.Review, error) {
		return core.Review{}, sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	got, _ = s.Get(ctx, seeded[0].ID)
	assert.Equal(t, "Renamed", got.Title)

	_, err = s.Update(ctx, "missing", func(r core.Review) (core.Review, error) { return r, nil })
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	s := memory.NewStore()
	seeded := seed(t, s, 5)
	ctx := context.Background()

	q := core.DefaultQuery()
	page, total, err := s.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 5)
	assert.Equal(t, seeded[4].ID, page[0].ID, "default sort is newest first")

	// Soft-delete one through the store primitive; it drops out of
	// listings but Get still resolves it.
	now := time.Now()
	_, err = s.Update(ctx, seeded[0].ID, func(r core.Review) (core.Review, error) {
		r.DeletedAt = &now
		return r, nil
	})
	require.NoError(t, err)

	_, total, err = s.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	got, err := s.Get(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)
}
