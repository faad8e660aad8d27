package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr error
	}{
		{"valid", Client{FirstName: "An", LastName: "Peeters"}, nil},
		{"missing first name", Client{LastName: "Peeters"}, ErrEmptyName},
		{"missing last name", Client{FirstName: "An"}, ErrEmptyName},
		{"whitespace only", Client{FirstName: "  ", LastName: "Peeters"}, ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.client.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFundValidate(t *testing.T) {
	cap := int64(10)
	badCap := int64(0)
	tests := []struct {
		name    string
		fund    Fund
		wantErr bool
	}{
		{"valid without cap", Fund{Name: "CM"}, false},
		{"valid with cap", Fund{Name: "Partena", MaxSessionsPerYear: &cap}, false},
		{"empty name", Fund{}, true},
		{"zero cap", Fund{Name: "OZ", MaxSessionsPerYear: &badCap}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fund.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppointmentValidate(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		appt    Appointment
		wantErr error
	}{
		{"valid", Appointment{Date: date, ClientID: 1, TypeID: 2, Quantity: 1}, nil},
		{"zero date", Appointment{ClientID: 1, TypeID: 2, Quantity: 1}, ErrInvalidDate},
		{"no client", Appointment{Date: date, TypeID: 2, Quantity: 1}, ErrMissingClient},
		{"no type", Appointment{Date: date, ClientID: 1, Quantity: 1}, ErrMissingType},
		{"zero quantity", Appointment{Date: date, ClientID: 1, TypeID: 2}, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.appt.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		exp     Expense
		wantErr bool
	}{
		{"valid", Expense{Date: date, Description: "Huur maart", Amount: Money{Cents: 45000}}, false},
		{"zero date", Expense{Description: "Huur", Amount: Money{Cents: 100}}, true},
		{"empty description", Expense{Date: date, Amount: Money{Cents: 100}}, true},
		{"too long description", Expense{Date: date, Description: strings.Repeat("x", 201), Amount: Money{Cents: 100}}, true},
		{"zero amount", Expense{Date: date, Description: "Huur"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.exp.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMonthBucket(t *testing.T) {
	d := time.Date(2025, 7, 23, 15, 4, 5, 0, time.UTC)
	got := MonthBucket(d)
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthBucket() = %v, want %v", got, want)
	}
}

func TestYearWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from, to := YearWindow(now)
	if !from.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", to)
	}
}

func TestFillMissingMonths(t *testing.T) {
	rows := []MonthTotals{
		{Month: 3, Income: Money{Cents: 12000}, Expenses: Money{Cents: 5000}},
		{Month: 7, Income: Money{Cents: 8000}},
	}
	out := FillMissingMonths(rows)
	if len(out) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(out))
	}
	if out[2].Net.Cents != 7000 {
		t.Errorf("march net = %d, want 7000", out[2].Net.Cents)
	}
	if out[0].Income.Cents != 0 || out[0].Expenses.Cents != 0 || out[0].Net.Cents != 0 {
		t.Errorf("january not zero-filled: %+v", out[0])
	}
	for i, r := range out {
		if r.Month != i+1 {
			t.Fatalf("row %d has month %d", i, r.Month)
		}
	}
}
