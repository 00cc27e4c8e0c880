// Package repository holds the contract shared by the snapshot store backends.
package repository

import (
	"context"
	"errors"

	"github.com/Houeta/yard-scout/internal/models"
)

// ErrRecordCorrupt is returned when a persisted record exists but cannot be decoded.
// The record is left in place so it can be inspected and fixed by hand.
var ErrRecordCorrupt = errors.New("persisted inventory record is corrupt")

// SnapshotStore loads and saves the last acted-upon inventory snapshot.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or an empty one if nothing was saved yet.
	Load(ctx context.Context) (models.Snapshot, error)
	// Save replaces the persisted snapshot with the given one.
	Save(ctx context.Context, snapshot models.Snapshot) error
}
