package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"praktijk/internal/core"
)

// Reference tables: consultation types, insurance funds, expense categories.
// List order mirrors the original API (alphabetical by name).

func (r *Repository) ListConsultTypes(ctx context.Context, tenantID int64) ([]core.ConsultType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price_cents FROM consult_types WHERE tenant_id = ? ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list consult types: %w", err)
	}
	defer rows.Close()

	var out []core.ConsultType
	for rows.Next() {
		var ct core.ConsultType
		var price sql.NullInt64
		if err := rows.Scan(&ct.ID, &ct.Name, &price); err != nil {
			return nil, fmt.Errorf("scan consult type: %w", err)
		}
		ct.Price = moneyPtr(price)
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *Repository) GetConsultType(ctx context.Context, tenantID, id int64) (core.ConsultType, error) {
	var ct core.ConsultType
	var price sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price_cents FROM consult_types WHERE tenant_id = ? AND id = ?`,
		tenantID, id).Scan(&ct.ID, &ct.Name, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ConsultType{}, ErrNotFound
	}
	if err != nil {
		return core.ConsultType{}, fmt.Errorf("get consult type: %w", err)
	}
	ct.Price = moneyPtr(price)
	return ct, nil
}

func (r *Repository) CreateConsultType(ctx context.Context, tenantID int64, ct core.ConsultType) (int64, error) {
	var price sql.NullInt64
	if ct.Price != nil {
		price = sql.NullInt64{Int64: ct.Price.Cents, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO consult_types (tenant_id, name, price_cents) VALUES (?, ?, ?)`,
		tenantID, ct.Name, price)
	if err != nil {
		return 0, fmt.Errorf("create consult type: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) UpdateConsultType(ctx context.Context, tenantID int64, ct core.ConsultType) error {
	var price sql.NullInt64
	if ct.Price != nil {
		price = sql.NullInt64{Int64: ct.Price.Cents, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE consult_types SET name = ?, price_cents = ? WHERE tenant_id = ? AND id = ?`,
		ct.Name, price, tenantID, ct.ID)
	if err != nil {
		return fmt.Errorf("update consult type: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) ListFunds(ctx context.Context, tenantID int64) ([]core.Fund, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, max_sessions_per_year, note FROM funds WHERE tenant_id = ? ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	defer rows.Close()

	var out []core.Fund
	for rows.Next() {
		var f core.Fund
		var cap sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Name, &cap, &f.Note); err != nil {
			return nil, fmt.Errorf("scan fund: %w", err)
		}
		if cap.Valid {
			f.MaxSessionsPerYear = &cap.Int64
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) CreateFund(ctx context.Context, tenantID int64, f core.Fund) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO funds (tenant_id, name, max_sessions_per_year, note) VALUES (?, ?, ?, ?)`,
		tenantID, f.Name, nullInt64(f.MaxSessionsPerYear), f.Note)
	if err != nil {
		return 0, fmt.Errorf("create fund: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) UpdateFund(ctx context.Context, tenantID int64, f core.Fund) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE funds SET name = ?, max_sessions_per_year = ?, note = ? WHERE tenant_id = ? AND id = ?`,
		f.Name, nullInt64(f.MaxSessionsPerYear), f.Note, tenantID, f.ID)
	if err != nil {
		return fmt.Errorf("update fund: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) ListCategories(ctx context.Context, tenantID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories WHERE tenant_id = ? ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, tenantID int64, c core.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (tenant_id, name) VALUES (?, ?)`,
		tenantID, c.Name)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) UpdateCategory(ctx context.Context, tenantID int64, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE tenant_id = ? AND id = ?`,
		c.Name, tenantID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

// requireRow translates "zero rows affected" into ErrNotFound so handlers can
// answer 404 instead of silently acknowledging a no-op update.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
