package revio

import (
	"context"
	"log/slog"

	"github.com/revio/revio/pkg/adapters/fs"
	"github.com/revio/revio/pkg/adapters/memory"
	"github.com/revio/revio/pkg/broker"
	"github.com/revio/revio/pkg/core"
)

// App bundles the wired collaborators: the mutation/query service, the
// fan-out broker it publishes to, and the backing store.
type App struct {
	Service *core.Service
	Broker  *broker.Broker
	Store   core.Store
}

// options holds the internal configuration for the revio application.
type options struct {
	logger      *slog.Logger
	store       core.Store
	broker      *broker.Broker
	dataDir     string
	eventBuffer int
	mustExist   bool
}

// Option defines a functional option for configuring revio.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		eventBuffer: broker.DefaultBuffer,
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStore allows injecting a custom storage adapter (e.g. mock, SQL).
// If provided, WithDataDir is ignored.
func WithStore(store core.Store) Option {
	return func(o *options) { o.store = store }
}

// WithDataDir selects the filesystem adapter rooted at dir. Without it
// (and without WithStore) reviews live in memory only.
func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) { o.mustExist = must }
}

// WithBroker allows injecting a shared broker instead of constructing one.
func WithBroker(b *broker.Broker) Option {
	return func(o *options) { o.broker = b }
}

// WithEventBuffer sets the per-subscriber event buffer size.
func WithEventBuffer(size int) Option {
	return func(o *options) { o.eventBuffer = size }
}

// New wires a ready-to-use application: store, broker, service.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store := o.store
	if store == nil {
		if o.dataDir != "" {
			store = fs.NewStore(fs.Config{
				Path:      o.dataDir,
				MustExist: o.mustExist,
				Logger:    o.logger,
			})
		} else {
			store = memory.NewStore()
		}
	}
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}

	b := o.broker
	if b == nil {
		b = broker.New(o.eventBuffer, o.logger)
	}

	return &App{
		Service: core.NewService(store, b, o.logger),
		Broker:  b,
		Store:   store,
	}, nil
}

// Watch starts the filesystem watcher when the app is backed by the fs
// adapter, so out-of-band edits to the data directory reach connected
// clients too. It is a no-op for other stores.
func (a *App) Watch(ctx context.Context) error {
	fsStore, ok := a.Store.(*fs.Store)
	if !ok {
		return nil
	}
	return fsStore.Watch(ctx, a.Broker)
}
