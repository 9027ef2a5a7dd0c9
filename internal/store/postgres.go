package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS internships (
	id                       UUID PRIMARY KEY,
	title                    TEXT NOT NULL,
	company_name             TEXT NOT NULL,
	company_logo             TEXT NOT NULL DEFAULT '',
	city                     TEXT NOT NULL DEFAULT '',
	state                    TEXT NOT NULL DEFAULT '',
	country                  TEXT NOT NULL DEFAULT '',
	work_type                TEXT NOT NULL,
	duration                 TEXT NOT NULL,
	start_date               TIMESTAMPTZ NOT NULL,
	compensation_type        TEXT NOT NULL,
	compensation_amount      DOUBLE PRECISION NOT NULL DEFAULT 0,
	compensation_description TEXT NOT NULL DEFAULT '',
	description              TEXT NOT NULL,
	categories               TEXT[] NOT NULL DEFAULT '{}',
	contact_name             TEXT NOT NULL DEFAULT '',
	contact_email            TEXT NOT NULL DEFAULT '',
	contact_phone            TEXT NOT NULL DEFAULT '',
	contact_profile          TEXT NOT NULL DEFAULT '',
	source_platform          TEXT NOT NULL,
	source_url               TEXT NOT NULL DEFAULT '',
	scraped_at               TIMESTAMPTZ NOT NULL,
	status                   TEXT NOT NULL DEFAULT 'active',
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (title, company_name, source_platform)
);

CREATE INDEX IF NOT EXISTS idx_internships_platform ON internships (source_platform);
CREATE INDEX IF NOT EXISTS idx_internships_work_type ON internships (work_type);
CREATE INDEX IF NOT EXISTS idx_internships_created_at ON internships (created_at DESC);
`

// Connect opens a pgx pool against dsn, verifies connectivity, and
// ensures the internships schema exists.
func Connect(ctx context.Context, dsn string, poolSize int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return pool, nil
}
