package services

import (
	"context"
	"fmt"
	"log/slog"

	"praktijk/internal/core"
	"praktijk/internal/storage"
)

// Publisher publishes entry sync messages. It is nil when AMQP is not
// configured; the booking flow then skips mirroring.
type Publisher interface {
	PublishEntrySync(ctx context.Context, kind string, id, tenantID int64) error
}

// BookingStore is the storage surface for creating bookkeeping entries.
type BookingStore interface {
	GetConsultType(ctx context.Context, tenantID, id int64) (core.ConsultType, error)
	CreateAppointment(ctx context.Context, tenantID int64, a core.Appointment) (int64, error)
	CreateExpense(ctx context.Context, tenantID int64, e core.Expense) (int64, error)
}

// BookingService orchestrates appointment and expense creation across
// SQLite and AMQP.
type BookingService struct {
	store     BookingStore
	publisher Publisher
}

func NewBookingService(store BookingStore, publisher Publisher) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
	}
}

// CreateAppointment prices and saves an appointment, then publishes a sync
// message. The price comes from the consultation type unless the caller
// provides an override; the total is price times quantity.
func (s *BookingService) CreateAppointment(ctx context.Context, tenantID int64, a core.Appointment) (core.Appointment, error) {
	if a.Quantity < 1 {
		a.Quantity = 1
	}

	if a.Price.Cents == 0 {
		ct, err := s.store.GetConsultType(ctx, tenantID, a.TypeID)
		if err != nil {
			return core.Appointment{}, fmt.Errorf("look up consultation type: %w", err)
		}
		if ct.Price == nil {
			return core.Appointment{}, fmt.Errorf("consultation type %q has no fixed price: %w", ct.Name, core.ErrInvalidAmount)
		}
		a.Price = *ct.Price
	}

	a.Total = core.Money{Cents: a.Price.Cents * int64(a.Quantity)}
	a.Month = core.MonthBucket(a.Date)

	if err := a.Validate(); err != nil {
		return core.Appointment{}, err
	}

	id, err := s.store.CreateAppointment(ctx, tenantID, a)
	if err != nil {
		return core.Appointment{}, fmt.Errorf("save appointment: %w", err)
	}
	a.ID = id

	s.publish(ctx, storage.KindAppointment, id, tenantID)

	return a, nil
}

// CreateExpense saves an expense and publishes a sync message.
func (s *BookingService) CreateExpense(ctx context.Context, tenantID int64, e core.Expense) (core.Expense, error) {
	e.Month = core.MonthBucket(e.Date)

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.store.CreateExpense(ctx, tenantID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.publish(ctx, storage.KindExpense, id, tenantID)

	return e, nil
}

// publish sends a sync message. Failures are logged, never propagated; the
// entry is saved locally and the pending-sync sweep picks it up later.
func (s *BookingService) publish(ctx context.Context, kind storage.EntryKind, id, tenantID int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message",
			"kind", kind, "id", id)
		return
	}

	if err := s.publisher.PublishEntrySync(ctx, string(kind), id, tenantID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"kind", kind, "id", id, "error", err)
	}
}
