package client

import (
	"context"
	"time"
)

// DefaultUndoWindow bounds how long a delete can be undone.
const DefaultUndoWindow = 10 * time.Second

// RestoreFunc clears DeletedAt on a soft-deleted review, through the
// mutation service or its HTTP equivalent (PUT with deletedAt null).
type RestoreFunc func(ctx context.Context, id string) error

// armUndoLocked records the undo deadline for a deleted id.
func (v *View) armUndoLocked(id string) {
	v.undo[id] = v.now().Add(v.undoWindow)
}

// CanUndo reports whether the delete of id is still within its undo
// window.
func (v *View) CanUndo(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	deadline, ok := v.undo[id]
	if !ok {
		return false
	}
	if v.now().After(deadline) {
		delete(v.undo, id)
		return false
	}
	return true
}

// Undo restores a review deleted within the undo window. It returns false
// without error when the window expired or the id was never deleted here.
// The view itself is not touched: the restore comes back as an Updated
// event (or shows on the next fetch), keeping the event path the single
// source of view changes.
func (v *View) Undo(ctx context.Context, id string) (bool, error) {
	if !v.CanUndo(id) {
		return false, nil
	}
	if v.restore == nil {
		return false, nil
	}
	if err := v.restore(ctx, id); err != nil {
		return false, err
	}

	v.mu.Lock()
	delete(v.undo, id)
	v.mu.Unlock()
	return true, nil
}
