// Package export builds the yearly bookkeeping workbook: one sheet with all
// appointments and one with all expenses for a calendar year.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"praktijk/internal/core"
)

const (
	appointmentsSheet = "Afspraken"
	expensesSheet     = "Uitgaven"
)

// Store is the storage surface for the yearly export.
type Store interface {
	AppointmentsByYear(ctx context.Context, tenantID int64, year int) ([]core.Appointment, error)
	ExpensesByYear(ctx context.Context, tenantID int64, year int) ([]core.Expense, error)
}

type Exporter struct {
	store Store
}

func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// WriteYear writes a tenant's workbook for the given year to w.
func (e *Exporter) WriteYear(ctx context.Context, w io.Writer, tenantID int64, year int) error {
	appointments, err := e.store.AppointmentsByYear(ctx, tenantID, year)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	expenses, err := e.store.ExpensesByYear(ctx, tenantID, year)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeAppointments(f, appointments); err != nil {
		return err
	}
	if err := writeExpenses(f, expenses); err != nil {
		return err
	}

	// Drop the default sheet left over from NewFile.
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != appointmentsSheet && defaultSheet != expensesSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeAppointments(f *excelize.File, appointments []core.Appointment) error {
	if _, err := f.NewSheet(appointmentsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", appointmentsSheet, err)
	}

	header := []interface{}{
		"Datum",
		"Klant",
		"Type",
		"Aantal",
		"Prijs",
		"Totaal",
		"Terugbetaalbaar",
		"Opmerking",
	}
	if err := f.SetSheetRow(appointmentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, a := range appointments {
		reimbursable := "nee"
		if a.Reimbursable {
			reimbursable = "ja"
		}
		excelRow := []interface{}{
			a.Date.Format("2006-01-02"),
			a.ClientName,
			a.TypeName,
			a.Quantity,
			a.Price.Euros(),
			a.Total.Euros(),
			reimbursable,
			a.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", row, err)
		}
		if err := f.SetSheetRow(appointmentsSheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	return nil
}

func writeExpenses(f *excelize.File, expenses []core.Expense) error {
	if _, err := f.NewSheet(expensesSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", expensesSheet, err)
	}

	header := []interface{}{
		"Datum",
		"Omschrijving",
		"Categorie",
		"Bedrag",
		"Betaalwijze",
	}
	if err := f.SetSheetRow(expensesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, e := range expenses {
		excelRow := []interface{}{
			e.Date.Format("2006-01-02"),
			e.Description,
			e.CategoryName,
			e.Amount.Euros(),
			e.PaymentMethod,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", row, err)
		}
		if err := f.SetSheetRow(expensesSheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	return nil
}
