// Package storage is the SQLite persistence layer. All entity operations are
// tenant-scoped: every query carries the tenant id of the authenticated
// practitioner account.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"praktijk/internal/core"

	_ "modernc.org/sqlite"
)

// dateFormat is how DATE columns are stored (ISO, lexicographically sortable).
const dateFormat = "2006-01-02"

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Tenant is a practitioner account. Every other entity belongs to exactly one.
type Tenant struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

func (r *Repository) CreateTenant(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("create tenant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tenant id: %w", err)
	}
	return id, nil
}

func (r *Repository) GetTenantByUsername(ctx context.Context, username string) (Tenant, error) {
	var t Tenant
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&t.ID, &t.Username, &t.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, ErrNotFound
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	t.CreatedAt = created.Time
	return t, nil
}

// SeedTenantDefaults provisions the reference tables of a fresh tenant with
// the practice defaults: consultation types with their standard prices, the
// common Belgian insurance funds and the usual expense categories. Existing
// rows are left alone, so re-running is harmless.
func (r *Repository) SeedTenantDefaults(ctx context.Context, tenantID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	consultTypes := []struct {
		name  string
		price *int64
	}{
		{"Intake gesprek", ptr(int64(6000))},
		{"Lange opvolg (consultatie)", ptr(int64(3500))},
		{"Korte opvolg (consultatie)", ptr(int64(3000))},
		{"Nabespreking", ptr(int64(2500))},
		{"Groepssessie (workshop)", nil},
	}
	for _, ct := range consultTypes {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO consult_types (tenant_id, name, price_cents) VALUES (?, ?, ?)`,
			tenantID, ct.name, nullInt64(ct.price)); err != nil {
			return fmt.Errorf("seed consult type %q: %w", ct.name, err)
		}
	}

	funds := []string{"CM", "Helan", "Solidaris", "LM", "Partena", "OZ", "De Voorzorg", "IDEWE"}
	for _, name := range funds {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO funds (tenant_id, name) VALUES (?, ?)`,
			tenantID, name); err != nil {
			return fmt.Errorf("seed fund %q: %w", name, err)
		}
	}

	categories := []string{"Huur", "Materiaal", "Verplaatsing", "Software", "Opleiding", "Marketing", "Overig"}
	for _, name := range categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (tenant_id, name) VALUES (?, ?)`,
			tenantID, name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	slog.InfoContext(ctx, "Seeded tenant defaults", "tenant_id", tenantID)
	return nil
}

func ptr[T any](v T) *T { return &v }

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateFormat), Valid: true}
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func moneyPtr(v sql.NullInt64) *core.Money {
	if !v.Valid {
		return nil
	}
	return &core.Money{Cents: v.Int64}
}
