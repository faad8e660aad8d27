package worker

import (
	"context"
	"fmt"
	"log/slog"

	"praktijk/internal/amqp"
	"praktijk/internal/core"
	"praktijk/internal/metrics"
	"praktijk/internal/sheets"
	"praktijk/internal/storage"
)

// Store is the storage surface the worker needs.
type Store interface {
	GetAppointment(ctx context.Context, tenantID, id int64) (core.Appointment, error)
	GetExpense(ctx context.Context, tenantID, id int64) (core.Expense, error)
	PendingSyncEntries(ctx context.Context, limit int) ([]storage.PendingEntry, error)
	MarkSynced(ctx context.Context, kind storage.EntryKind, id int64) error
	MarkSyncError(ctx context.Context, kind storage.EntryKind, id int64) error
}

// SyncWorker mirrors appointments and expenses from SQLite to Google Sheets
type SyncWorker struct {
	store     Store
	mirror    sheets.Mirror
	batchSize int
}

func NewSyncWorker(store Store, mirror sheets.Mirror, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"kind", msg.Kind,
		"id", msg.ID,
		"tenant_id", msg.TenantID)

	return w.syncEntry(ctx, storage.EntryKind(msg.Kind), msg.ID, msg.TenantID)
}

// ProcessPendingEntries processes entries that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.store.PendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, p := range pending {
		if err := w.syncEntry(ctx, p.Kind, p.ID, p.TenantID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry",
				"kind", p.Kind, "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck verifies and syncs any pending entries at worker startup.
// This recovers from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.store.PendingSyncEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.syncEntry(ctx, p.Kind, p.ID, p.TenantID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during startup",
				"kind", p.Kind, "id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncEntry(ctx context.Context, kind storage.EntryKind, id, tenantID int64) (err error) {
	defer func() { metrics.ObserveEntrySync(string(kind), err) }()

	var rowRef string

	switch kind {
	case storage.KindAppointment:
		appointment, err := w.store.GetAppointment(ctx, tenantID, id)
		if err != nil {
			w.markError(ctx, kind, id)
			return fmt.Errorf("get appointment from storage: %w", err)
		}
		rowRef, err = w.mirror.AppendAppointment(ctx, appointment)
		if err != nil {
			w.markError(ctx, kind, id)
			return fmt.Errorf("append appointment to sheets: %w", err)
		}
	case storage.KindExpense:
		expense, err := w.store.GetExpense(ctx, tenantID, id)
		if err != nil {
			w.markError(ctx, kind, id)
			return fmt.Errorf("get expense from storage: %w", err)
		}
		rowRef, err = w.mirror.AppendExpense(ctx, expense)
		if err != nil {
			w.markError(ctx, kind, id)
			return fmt.Errorf("append expense to sheets: %w", err)
		}
	default:
		return fmt.Errorf("unknown entry kind: %s", kind)
	}

	if err := w.store.MarkSynced(ctx, kind, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}

	slog.InfoContext(ctx, "Entry synced to sheets",
		"kind", kind, "id", id, "row_ref", rowRef)

	return nil
}

func (w *SyncWorker) markError(ctx context.Context, kind storage.EntryKind, id int64) {
	if err := w.store.MarkSyncError(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error",
			"kind", kind, "id", id, "error", err)
	}
}
