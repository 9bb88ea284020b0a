package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"laurelid/internal/verification"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres stores decisions in a single verifications table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies pending schema migrations and returns how many ran.
func (s *Postgres) Migrate(ctx context.Context) (int, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return 0, err
	}
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrate verifications schema: %w", err)
	}
	return len(results), nil
}

func (s *Postgres) Save(ctx context.Context, d verification.Decision) error {
	var errorCode *string
	if d.HasError() {
		errorCode = &d.ErrorCode
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verifications (id, success, age_over_21, issuer, subject_id, doc_type, error_code, channel, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, d.ID, d.Success, d.AgeOver21, d.Issuer, d.SubjectID, d.DocType, errorCode, string(d.Channel), d.DecidedAt)
	if err != nil {
		return fmt.Errorf("insert verification %s: %w", d.ID, err)
	}
	return nil
}

func (s *Postgres) Latest(ctx context.Context, n int) ([]verification.Decision, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, success, age_over_21, issuer, subject_id, doc_type, COALESCE(error_code, ''), channel, decided_at
		FROM verifications
		ORDER BY decided_at DESC
		LIMIT $1
	`, clampLatest(n))
	if err != nil {
		return nil, fmt.Errorf("query latest verifications: %w", err)
	}
	decisions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (verification.Decision, error) {
		var d verification.Decision
		var channel string
		err := row.Scan(&d.ID, &d.Success, &d.AgeOver21, &d.Issuer, &d.SubjectID, &d.DocType, &d.ErrorCode, &channel, &d.DecidedAt)
		d.Channel = verification.Channel(channel)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan latest verifications: %w", err)
	}
	return decisions, nil
}
