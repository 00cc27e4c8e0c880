package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/yard-scout/internal/models"
	"github.com/Houeta/yard-scout/internal/repository"
)

// Load implements repository.SnapshotStore. A database without a saved snapshot yields an empty one.
func (r *Repository) Load(ctx context.Context) (models.Snapshot, error) {
	const opn = "repository.sqlite.Load"
	log := r.log.With("op", opn)

	// 1. Check that a snapshot was ever saved
	var savedAt string
	err := r.db.QueryRowContext(ctx, "SELECT saved_at FROM snapshot_state WHERE id = 1").Scan(&savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.InfoContext(ctx, "No previous record found, starting from an empty one")
			return models.Snapshot{}, nil
		}
		return nil, fmt.Errorf("%s: failed to get snapshot state: %w", opn, err)
	}

	// 2. Get all items in source order
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT item_id, make, model, year, color, location, date_added FROM inventory ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get inventory: %w", opn, err)
	}
	defer rows.Close()

	// 3. Scan every row to InventoryItem structure
	snapshot := models.Snapshot{}
	for rows.Next() {
		var item models.InventoryItem
		if err = rows.Scan(
			&item.ID, &item.Make, &item.Model, &item.Year, &item.Color, &item.Location, &item.DateAdded,
		); err != nil {
			return nil, fmt.Errorf("%s: %w: failed to scan inventory item: %w", opn, repository.ErrRecordCorrupt, err)
		}
		snapshot = append(snapshot, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	log.DebugContext(ctx, "Loaded inventory record", "count", len(snapshot), "saved_at", savedAt)
	return snapshot, nil
}

// Save implements repository.SnapshotStore. The snapshot replaces the stored one inside a single transaction.
func (r *Repository) Save(ctx context.Context, snapshot models.Snapshot) error {
	const opn = "repository.sqlite.Save"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // after a commit Rollback only returns sql.ErrTxDone

	// 2. Mark the snapshot as saved.
	_, err = tx.ExecContext(
		ctx,
		"INSERT OR REPLACE INTO snapshot_state (id, saved_at) VALUES (1, ?)",
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update snapshot state: %w", opn, err)
	}

	// 3. Completely clear the inventory table to record the new snapshot.
	_, err = tx.ExecContext(ctx, "DELETE FROM inventory")
	if err != nil {
		return fmt.Errorf("%s: failed to delete old inventory: %w", opn, err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO inventory (position, item_id, make, model, year, color, location, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare insert statement: %w", opn, err)
	}
	defer stmt.Close()

	// 4. Insert each item keeping its position in the snapshot.
	for pos, item := range snapshot {
		if _, err = stmt.ExecContext(
			ctx, pos, item.ID, item.Make, item.Model, item.Year, item.Color, item.Location, item.DateAdded,
		); err != nil {
			return fmt.Errorf("%s: failed to insert item with id %s: %w", opn, item.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}
	r.log.InfoContext(ctx, "Inventory record saved successfully", "op", opn, "count", len(snapshot))

	return nil
}
