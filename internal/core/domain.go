package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Money struct {
		Cents int64
	}

	// Client is a practice client (klant). FundID is nil for clients without
	// an insurance fund; those never take part in reimbursement signals.
	// Exception raises the Solidaris session cap for this client.
	Client struct {
		ID        int64
		FirstName string
		LastName  string
		Email     string
		Phone     string
		StartDate time.Time
		FundID    *int64
		Exception bool

		// FundName is filled on reads by joining the funds table.
		FundName string
	}

	// Fund is an insurance fund (mutualiteit). MaxSessionsPerYear is the
	// generic session cap used when no named policy matches the fund name.
	Fund struct {
		ID                 int64
		Name               string
		MaxSessionsPerYear *int64
		Note               string
	}

	// ConsultType is a consultation type with an optional fixed price.
	// Price is nil for types billed ad hoc (workshops, group sessions).
	ConsultType struct {
		ID    int64
		Name  string
		Price *Money
	}

	// Category is an expense category.
	Category struct {
		ID   int64
		Name string
	}

	// Appointment is a billed consultation. Total is Price times Quantity,
	// computed at creation. Month is the first day of the appointment month
	// and drives the dashboard aggregation.
	Appointment struct {
		ID           int64
		Date         time.Time
		ClientID     int64
		TypeID       int64
		Quantity     int
		Price        Money
		Total        Money
		Reimbursable bool
		Note         string
		Month        time.Time
		Document     string

		// Joined display fields.
		ClientName string
		TypeName   string
	}

	Expense struct {
		ID            int64
		Date          time.Time
		Description   string
		CategoryID    *int64
		Amount        Money
		PaymentMethod string
		Month         time.Time

		CategoryName string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingClient    = errors.New("missing client reference")
	ErrMissingType      = errors.New("missing consultation type reference")
)

// MonthBucket returns the first day of d's month in UTC. Appointments and
// expenses are aggregated per month bucket, as in the dashboard queries.
func MonthBucket(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// YearWindow returns the half-open interval [Jan 1 of now's year, Jan 1 of
// the following year). The reimbursable session tally counts appointments
// whose date falls in this window.
func YearWindow(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(1, 0, 0)
	return from, to
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return ErrEmptyName
	}
	return nil
}

func (f Fund) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if f.MaxSessionsPerYear != nil && *f.MaxSessionsPerYear < 1 {
		return errors.New("max sessions per year must be at least 1")
	}
	return nil
}

func (ct ConsultType) Validate() error {
	if strings.TrimSpace(ct.Name) == "" {
		return ErrEmptyName
	}
	if ct.Price != nil {
		return ct.Price.Validate()
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (a Appointment) Validate() error {
	if a.Date.IsZero() {
		return ErrInvalidDate
	}
	if a.ClientID <= 0 {
		return ErrMissingClient
	}
	if a.TypeID <= 0 {
		return ErrMissingType
	}
	if a.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}
