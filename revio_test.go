package revio_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revio/revio"
	"github.com/revio/revio/pkg/adapters/fs"
	"github.com/revio/revio/pkg/adapters/memory"
	"github.com/revio/revio/pkg/core"
)

func TestNew_DefaultsToMemory(t *testing.T) {
	app, err := revio.New()
	require.NoError(t, err)
	defer app.Broker.Close()

	_, ok := app.Store.(*memory.Store)
	assert.True(t, ok)

	// Watch is a no-op without the fs adapter.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, app.Watch(ctx))
}

func TestNew_WithDataDirPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	app, err := revio.New(revio.WithDataDir(dir))
	require.NoError(t, err)
	_, ok := app.Store.(*fs.Store)
	require.True(t, ok)

	created, err := app.Service.Create(ctx, "Durable title", "Durable content body")
	require.NoError(t, err)
	app.Broker.Close()

	// A second app over the same directory sees the review.
	app2, err := revio.New(revio.WithDataDir(dir), revio.WithMustExist(true))
	require.NoError(t, err)
	defer app2.Broker.Close()

	got, err := app2.Service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable title", got.Title)
}

func TestNew_WithInjectedStore(t *testing.T) {
	store := memory.NewStore()
	app, err := revio.New(revio.WithStore(store), revio.WithEventBuffer(4))
	require.NoError(t, err)
	defer app.Broker.Close()

	require.NoError(t, store.Insert(context.Background(), core.Review{
		ID:        core.NewID(),
		Title:     "Injected title",
		Content:   "Injected content body",
	}))

	page, err := app.Service.List(context.Background(), core.DefaultQuery())
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 1)
}
