package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revio/revio/pkg/core"
)

func TestUndo_WithinWindow(t *testing.T) {
	var restored []string
	v := NewView(DefaultParams(), WithRestorer(func(ctx context.Context, id string) error {
		restored = append(restored, id)
		return nil
	}))

	v.ApplyEvent(core.Event{Kind: core.EventDeleted, ID: "a"})
	require.True(t, v.CanUndo("a"))

	ok, err := v.Undo(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, restored)

	// The affordance is consumed.
	assert.False(t, v.CanUndo("a"))
	ok, err = v.Undo(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUndo_WindowExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := NewView(DefaultParams(), WithRestorer(func(ctx context.Context, id string) error {
		t.Fatal("restore must not run after the window expired")
		return nil
	}))
	v.now = func() time.Time { return now }

	v.ApplyEvent(core.Event{Kind: core.EventDeleted, ID: "a"})
	assert.True(t, v.CanUndo("a"))

	now = now.Add(DefaultUndoWindow + time.Second)
	assert.False(t, v.CanUndo("a"))

	ok, err := v.Undo(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUndo_NeverDeleted(t *testing.T) {
	v := NewView(DefaultParams())
	ok, err := v.Undo(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUndo_RestoreFailureKeepsAffordance(t *testing.T) {
	boom := errors.New("server unavailable")
	v := NewView(DefaultParams(), WithRestorer(func(ctx context.Context, id string) error {
		return boom
	}))

	v.ApplyEvent(core.Event{Kind: core.EventDeleted, ID: "a"})

	ok, err := v.Undo(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)

	// Failure leaves the view and the affordance unchanged so the user
	// can retry within the window.
	assert.True(t, v.CanUndo("a"))
}
