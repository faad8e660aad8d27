package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Sync status values for the sheets mirror queue.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// EntryKind distinguishes the two bookkeeping row types in sync messages.
type EntryKind string

const (
	KindAppointment EntryKind = "appointment"
	KindExpense     EntryKind = "expense"
)

// PendingEntry identifies one row waiting to be mirrored to the bookkeeping
// spreadsheet.
type PendingEntry struct {
	Kind     EntryKind
	ID       int64
	TenantID int64
}

func tableFor(kind EntryKind) (string, error) {
	switch kind {
	case KindAppointment:
		return "appointments", nil
	case KindExpense:
		return "expenses", nil
	default:
		return "", fmt.Errorf("unknown entry kind: %s", kind)
	}
}

// PendingSyncEntries returns up to limit rows still waiting for the sheets
// mirror, appointments first. Used by the worker's periodic catch-up pass.
func (r *Repository) PendingSyncEntries(ctx context.Context, limit int) ([]PendingEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, id, tenant_id FROM (
		     SELECT 'appointment' AS kind, id, tenant_id, created_at
		     FROM appointments WHERE sync_status = ?
		     UNION ALL
		     SELECT 'expense' AS kind, id, tenant_id, created_at
		     FROM expenses WHERE sync_status = ?
		 )
		 ORDER BY created_at
		 LIMIT ?`,
		SyncPending, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync entries: %w", err)
	}
	defer rows.Close()

	var out []PendingEntry
	for rows.Next() {
		var e PendingEntry
		if err := rows.Scan(&e.Kind, &e.ID, &e.TenantID); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) MarkSynced(ctx context.Context, kind EntryKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as synced", "kind", kind, "id", id)
	return nil
}

func (r *Repository) MarkSyncError(ctx context.Context, kind EntryKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with sync error", "kind", kind, "id", id)
	return nil
}
