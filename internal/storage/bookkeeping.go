package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"praktijk/internal/core"
)

func (r *Repository) ListClients(ctx context.Context, tenantID int64) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.first_name, c.last_name, c.email, c.phone, c.start_date,
		        c.fund_id, c.exception, COALESCE(f.name, '')
		 FROM clients c
		 LEFT JOIN funds f ON c.fund_id = f.id
		 WHERE c.tenant_id = ?
		 ORDER BY c.last_name, c.first_name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []core.Client
	for rows.Next() {
		var c core.Client
		var start sql.NullString
		var fundID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&start, &fundID, &c.Exception, &c.FundName); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		if start.Valid {
			c.StartDate = parseDate(start.String)
		}
		if fundID.Valid {
			c.FundID = &fundID.Int64
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateClient(ctx context.Context, tenantID int64, c core.Client) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (tenant_id, first_name, last_name, email, phone, start_date, fund_id, exception)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tenantID, c.FirstName, c.LastName, c.Email, c.Phone,
		nullDate(c.StartDate), nullInt64(c.FundID), c.Exception)
	if err != nil {
		return 0, fmt.Errorf("create client: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) UpdateClient(ctx context.Context, tenantID int64, c core.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET first_name = ?, last_name = ?, email = ?, phone = ?,
		        start_date = ?, fund_id = ?, exception = ?
		 WHERE tenant_id = ? AND id = ?`,
		c.FirstName, c.LastName, c.Email, c.Phone,
		nullDate(c.StartDate), nullInt64(c.FundID), c.Exception,
		tenantID, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) CreateAppointment(ctx context.Context, tenantID int64, a core.Appointment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (tenant_id, date, client_id, type_id, quantity,
		        price_cents, total_cents, reimbursable, note, month, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tenantID, a.Date.Format(dateFormat), a.ClientID, a.TypeID, a.Quantity,
		a.Price.Cents, a.Total.Cents, a.Reimbursable, a.Note,
		a.Month.Format(dateFormat), a.Document)
	if err != nil {
		return 0, fmt.Errorf("create appointment: %w", err)
	}
	return res.LastInsertId()
}

const appointmentColumns = `a.id, a.date, a.client_id, a.type_id, a.quantity,
	a.price_cents, a.total_cents, a.reimbursable, a.note, a.month, a.document,
	c.first_name || ' ' || c.last_name, t.name`

func (r *Repository) scanAppointment(rows interface{ Scan(...any) error }) (core.Appointment, error) {
	var a core.Appointment
	var date, month string
	if err := rows.Scan(&a.ID, &date, &a.ClientID, &a.TypeID, &a.Quantity,
		&a.Price.Cents, &a.Total.Cents, &a.Reimbursable, &a.Note, &month, &a.Document,
		&a.ClientName, &a.TypeName); err != nil {
		return core.Appointment{}, fmt.Errorf("scan appointment: %w", err)
	}
	a.Date = parseDate(date)
	a.Month = parseDate(month)
	return a, nil
}

func (r *Repository) ListAppointments(ctx context.Context, tenantID int64) ([]core.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments a
		 JOIN clients c ON a.client_id = c.id
		 JOIN consult_types t ON a.type_id = t.id
		 WHERE a.tenant_id = ?
		 ORDER BY a.date DESC, a.id DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []core.Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetAppointment(ctx context.Context, tenantID, id int64) (core.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments a
		 JOIN clients c ON a.client_id = c.id
		 JOIN consult_types t ON a.type_id = t.id
		 WHERE a.tenant_id = ? AND a.id = ?`,
		tenantID, id)
	a, err := r.scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(errors.Unwrap(err), sql.ErrNoRows) {
			return core.Appointment{}, ErrNotFound
		}
		return core.Appointment{}, err
	}
	return a, nil
}

// AppointmentsByYear returns the year's appointments oldest first, for the
// Excel export and the sheets mirror.
func (r *Repository) AppointmentsByYear(ctx context.Context, tenantID int64, year int) ([]core.Appointment, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments a
		 JOIN clients c ON a.client_id = c.id
		 JOIN consult_types t ON a.type_id = t.id
		 WHERE a.tenant_id = ? AND a.date >= ? AND a.date < ?
		 ORDER BY a.date, a.id`,
		tenantID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("appointments by year: %w", err)
	}
	defer rows.Close()

	var out []core.Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) CreateExpense(ctx context.Context, tenantID int64, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (tenant_id, date, description, category_id, amount_cents, payment_method, month)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tenantID, e.Date.Format(dateFormat), e.Description, nullInt64(e.CategoryID),
		e.Amount.Cents, e.PaymentMethod, e.Month.Format(dateFormat))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) scanExpense(rows interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	var date, month string
	var catID sql.NullInt64
	if err := rows.Scan(&e.ID, &date, &e.Description, &catID, &e.Amount.Cents,
		&e.PaymentMethod, &month, &e.CategoryName); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	if catID.Valid {
		e.CategoryID = &catID.Int64
	}
	e.Date = parseDate(date)
	e.Month = parseDate(month)
	return e, nil
}

const expenseColumns = `e.id, e.date, e.description, e.category_id, e.amount_cents,
	e.payment_method, e.month, COALESCE(cat.name, '')`

func (r *Repository) ListExpenses(ctx context.Context, tenantID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e
		 LEFT JOIN categories cat ON e.category_id = cat.id
		 WHERE e.tenant_id = ?
		 ORDER BY e.date DESC, e.id DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) GetExpense(ctx context.Context, tenantID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e
		 LEFT JOIN categories cat ON e.category_id = cat.id
		 WHERE e.tenant_id = ? AND e.id = ?`,
		tenantID, id)
	e, err := r.scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(errors.Unwrap(err), sql.ErrNoRows) {
			return core.Expense{}, ErrNotFound
		}
		return core.Expense{}, err
	}
	return e, nil
}

func (r *Repository) ExpensesByYear(ctx context.Context, tenantID int64, year int) ([]core.Expense, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e
		 LEFT JOIN categories cat ON e.category_id = cat.id
		 WHERE e.tenant_id = ? AND e.date >= ? AND e.date < ?
		 ORDER BY e.date, e.id`,
		tenantID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("expenses by year: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReimbursableSessionCounts tallies, per client, the appointments flagged
// reimbursable whose date falls in [from, to). This is the pre-aggregated
// input the signal engine consumes; clients without qualifying appointments
// are simply absent from the map.
func (r *Repository) ReimbursableSessionCounts(ctx context.Context, tenantID int64, from, to time.Time) (map[int64]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT client_id, COUNT(*)
		 FROM appointments
		 WHERE tenant_id = ? AND reimbursable = 1 AND date >= ? AND date < ?
		 GROUP BY client_id`,
		tenantID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("reimbursable session counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var clientID int64
		var n int
		if err := rows.Scan(&clientID, &n); err != nil {
			return nil, fmt.Errorf("scan session count: %w", err)
		}
		counts[clientID] = n
	}
	return counts, rows.Err()
}

// Dashboard returns the income/expense/net summary for one month bucket.
func (r *Repository) Dashboard(ctx context.Context, tenantID int64, month time.Time) (core.Dashboard, error) {
	bucket := core.MonthBucket(month).Format(dateFormat)

	var income int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_cents), 0) FROM appointments WHERE tenant_id = ? AND month = ?`,
		tenantID, bucket).Scan(&income)
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("dashboard income: %w", err)
	}

	var expenses int64
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE tenant_id = ? AND month = ?`,
		tenantID, bucket).Scan(&expenses)
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("dashboard expenses: %w", err)
	}

	return core.Dashboard{
		Income:   core.Money{Cents: income},
		Expenses: core.Money{Cents: expenses},
		Net:      core.Money{Cents: income - expenses},
	}, nil
}

// MonthOverview returns per-month income and expense totals for a year.
// Months without activity are absent; callers zero-fill with
// core.FillMissingMonths.
func (r *Repository) MonthOverview(ctx context.Context, tenantID int64, year int) ([]core.MonthTotals, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := r.db.QueryContext(ctx,
		`SELECT month, SUM(income), SUM(expense) FROM (
		     SELECT month, total_cents AS income, 0 AS expense
		     FROM appointments WHERE tenant_id = ? AND month >= ? AND month < ?
		     UNION ALL
		     SELECT month, 0 AS income, amount_cents AS expense
		     FROM expenses WHERE tenant_id = ? AND month >= ? AND month < ?
		 )
		 GROUP BY month
		 ORDER BY month`,
		tenantID, from.Format(dateFormat), to.Format(dateFormat),
		tenantID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("month overview: %w", err)
	}
	defer rows.Close()

	var out []core.MonthTotals
	for rows.Next() {
		var month string
		var income, expense int64
		if err := rows.Scan(&month, &income, &expense); err != nil {
			return nil, fmt.Errorf("scan month overview: %w", err)
		}
		out = append(out, core.MonthTotals{
			Month:    int(parseDate(month).Month()),
			Income:   core.Money{Cents: income},
			Expenses: core.Money{Cents: expense},
			Net:      core.Money{Cents: income - expense},
		})
	}
	return out, rows.Err()
}
