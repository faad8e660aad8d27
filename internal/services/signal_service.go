package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"praktijk/internal/core"
	"praktijk/internal/signals"
)

// SignalStore is the storage surface for the reimbursement signal engine.
type SignalStore interface {
	ListClients(ctx context.Context, tenantID int64) ([]core.Client, error)
	ListFunds(ctx context.Context, tenantID int64) ([]core.Fund, error)
	ReimbursableSessionCounts(ctx context.Context, tenantID int64, from, to time.Time) (map[int64]int, error)
}

// SignalService loads a tenant's bookkeeping state and runs the
// reimbursement signal engine over it.
type SignalService struct {
	store SignalStore
}

func NewSignalService(store SignalStore) *SignalService {
	return &SignalService{store: store}
}

// Evaluate computes reimbursement signals for all of a tenant's clients.
// Session counts cover the calendar year containing now.
func (s *SignalService) Evaluate(ctx context.Context, tenantID int64, now time.Time) ([]signals.Signal, error) {
	from, to := core.YearWindow(now)

	var (
		clients []core.Client
		funds   []core.Fund
		counts  map[int64]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.store.ListClients(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		funds, err = s.store.ListFunds(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.ReimbursableSessionCounts(gctx, tenantID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load signal inputs: %w", err)
	}

	fundsByID := make(map[int64]core.Fund, len(funds))
	for _, f := range funds {
		fundsByID[f.ID] = f
	}

	if dangling := signals.DanglingFundRefs(clients, fundsByID); len(dangling) > 0 {
		slog.WarnContext(ctx, "Clients reference unknown funds, skipping them in signal evaluation",
			"tenant_id", tenantID, "client_ids", dangling)
	}

	result, err := signals.Evaluate(clients, fundsByID, counts)
	if err != nil {
		return nil, fmt.Errorf("evaluate signals: %w", err)
	}

	return result, nil
}
