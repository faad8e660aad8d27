package sheets

import (
	"context"

	"praktijk/internal/core"
)

// Ports for outbound adapters.
type (
	AppointmentWriter interface {
		AppendAppointment(ctx context.Context, a core.Appointment) (rowRef string, err error)
	}

	ExpenseWriter interface {
		AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// Mirror writes bookkeeping entries to an external spreadsheet.
	Mirror interface {
		AppointmentWriter
		ExpenseWriter
	}
)
