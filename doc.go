// Package revio is the composition root for the revio application.
//
// It connects the core business logic (Domain Layer) with the
// infrastructure adapters (Persistence Layer, Transport Layer).
//
// Philosophy:
//
// Revio keeps a softly-deletable collection of reviews synchronized across
// any number of connected clients. Mutations flow through one service,
// every committed mutation fans out as an event, and each client merges
// those events into its own paginated view.
//
// Features:
//
//   - **Soft delete with undo**: deletes set a timestamp instead of
//     removing data; a restore clears it and the record reappears.
//   - **Live fan-out**: a process-wide broker pushes every committed
//     mutation to all connected clients, best-effort and without
//     backpressure on the mutation path.
//   - **Client reconciler**: merges broadcast events into a paginated,
//     sorted, searched page without duplicate or ghost rows.
//   - **Pluggable storage**: `core.Store` with in-memory and filesystem
//     adapters out of the box; the filesystem adapter can watch for
//     out-of-band edits.
//
// Usage:
//
//	// Wire the application with functional options
//	app, err := revio.New(
//		revio.WithDataDir("./data"),
//		revio.WithLogger(logger),
//	)
//
//	// Create a review; every subscriber sees the Added event
//	review, err := app.Service.Create(ctx, "Title", "Content body")
package revio
