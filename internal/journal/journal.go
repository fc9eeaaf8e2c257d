// Package journal is an append-only record of runs, offers and picks kept
// for balance analysis. It never restores a session.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/draftforge/internal/config"
)

// Journal wraps the database connection. It is safe for concurrent use by
// many sessions.
type Journal struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open connects to the configured database and runs migrations.
func Open(cfg config.JournalConfig) (*Journal, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = postgresDSN(cfg.Postgres)
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create journal directory: %w", err)
			}
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
	}

	j := &Journal{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Dialect returns the active SQL dialect.
func (j *Journal) Dialect() Dialect {
	return j.dialect
}

func (j *Journal) migrate() error {
	pk := j.dialect.SerialPrimaryKey()
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id ` + pk + `,
			seed BIGINT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			final_level INTEGER NOT NULL DEFAULT 0,
			jobs TEXT NOT NULL DEFAULT '',
			modifiers TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS offers (
			id ` + pk + `,
			run_id BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			level INTEGER NOT NULL,
			source TEXT NOT NULL,
			titles TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS picks (
			id ` + pk + `,
			run_id BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			level INTEGER NOT NULL,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			rarity TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_offers_run_id ON offers(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_picks_run_id ON picks(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_picks_category ON picks(category)`,
	}

	for _, m := range migrations {
		if _, err := j.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// insert runs an INSERT and returns the new row id on either dialect.
func (j *Journal) insert(query string, args ...any) (int64, error) {
	if j.dialect.SupportsLastInsertID() {
		res, err := j.db.Exec(j.qb.Build(query), args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	var id int64
	err := j.db.QueryRow(j.qb.BuildWithReturning(query, "id"), args...).Scan(&id)
	return id, err
}
