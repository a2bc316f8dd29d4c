package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revio/revio/pkg/adapters/memory"
	"github.com/revio/revio/pkg/core"
)

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []core.Event
}

func (p *recordingPublisher) Publish(e core.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []core.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.Event, len(p.events))
	copy(out, p.events)
	return out
}

func newTestService() (*core.Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	return core.NewService(memory.NewStore(), pub, nil), pub
}

func TestService_CreateThenQuery(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Title1", "Content body one")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.DeletedAt)

	// Immediately visible on page 1 under the default sort, exactly once.
	page, err := svc.List(ctx, core.DefaultQuery())
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, created.ID, page.Reviews[0].ID)
	assert.Equal(t, 1, page.TotalPages)

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, core.EventAdded, events[0].Kind)
	require.NotNil(t, events[0].Review)
	assert.Equal(t, created.ID, events[0].Review.ID)
}

func TestService_CreateValidation(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "ab", "long enough content")
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")

	_, err = svc.Create(ctx, "Valid title", "short")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "content")

	_, err = svc.Create(ctx, "", "")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "content")

	// Failed mutations publish nothing.
	assert.Empty(t, pub.Events())
}

func TestService_Update(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Title1", "Content body one")
	require.NoError(t, err)

	newTitle := "Title1-edited"
	updated, err := svc.Update(ctx, created.ID, core.Patch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Title1-edited", updated.Title)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "CreatedAt is immutable")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title1-edited", got.Title)

	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, core.EventUpdated, events[1].Kind)
	assert.Equal(t, "Title1-edited", events[1].Review.Title)
}

func TestService_UpdateUnknownID(t *testing.T) {
	svc, _ := newTestService()

	title := "Some title"
	_, err := svc.Update(context.Background(), "missing", core.Patch{Title: &title})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_UpdateValidation(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Title1", "Content body one")
	require.NoError(t, err)

	bad := "x"
	_, err = svc.Update(ctx, created.ID, core.Patch{Title: &bad})
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)

	// The stored record is untouched and no Updated event went out.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title1", got.Title)
	assert.Len(t, pub.Events(), 1)
}

func TestService_SoftDeleteLifecycle(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Title1", "Content body one")
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, created.ID))

	// Gone from default queries and from Get, but not hard-deleted.
	page, err := svc.List(ctx, core.DefaultQuery())
	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
	assert.Equal(t, 0, page.TotalPages)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting again reports not found: no live record has that id.
	err = svc.SoftDelete(ctx, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Restore clears DeletedAt; identity and creation time survive.
	restored, err := svc.Restore(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, created.ID, restored.ID)
	assert.True(t, created.CreatedAt.Equal(restored.CreatedAt))

	page, err = svc.List(ctx, core.DefaultQuery())
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)

	// Exactly one event per committed mutation, in commit order. The
	// Deleted event carries only the id.
	kinds := []core.EventKind{}
	for _, e := range pub.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []core.EventKind{core.EventAdded, core.EventDeleted, core.EventUpdated}, kinds)
	assert.Nil(t, pub.Events()[1].Review)
	assert.Equal(t, created.ID, pub.Events()[1].ID)
}

func TestService_SoftDeleteUnknownID(t *testing.T) {
	svc, _ := newTestService()
	err := svc.SoftDelete(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_ListInvalidArguments(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var ia *core.InvalidArgumentError

	q := core.DefaultQuery()
	q.Page = 0
	_, err := svc.List(ctx, q)
	assert.ErrorAs(t, err, &ia)

	q = core.DefaultQuery()
	q.PageSize = -1
	_, err = svc.List(ctx, q)
	assert.ErrorAs(t, err, &ia)

	q = core.DefaultQuery()
	q.Sort = "rating"
	_, err = svc.List(ctx, q)
	assert.ErrorAs(t, err, &ia)

	q = core.DefaultQuery()
	q.Order = "sideways"
	_, err = svc.List(ctx, q)
	assert.ErrorAs(t, err, &ia)
}

func TestService_ListPastLastPage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "Some title", "Content body text")
		require.NoError(t, err)
	}

	q := core.DefaultQuery()
	q.PageSize = 2
	q.Page = 99
	page, err := svc.List(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 99, page.CurrentPage)
}

// failingStore simulates an unavailable backend.
type failingStore struct{}

var errDown = errors.New("backend down")

func (failingStore) Insert(context.Context, core.Review) error { return errDown }
func (failingStore) Get(context.Context, string) (core.Review, error) {
	return core.Review{}, errDown
}
func (failingStore) Update(context.Context, string, func(core.Review) (core.Review, error)) (core.Review, error) {
	return core.Review{}, errDown
}
func (failingStore) List(context.Context, core.Query) ([]core.Review, int, error) {
	return nil, 0, errDown
}
func (failingStore) Initialize(context.Context) error { return nil }

func TestService_StoreFailure(t *testing.T) {
	pub := &recordingPublisher{}
	svc := core.NewService(failingStore{}, pub, nil)
	ctx := context.Background()

	var se *core.StoreError

	_, err := svc.Create(ctx, "Valid title", "Content body text")
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errDown)

	_, err = svc.List(ctx, core.DefaultQuery())
	assert.ErrorAs(t, err, &se)

	// A failed write publishes nothing.
	assert.Empty(t, pub.Events())
}
