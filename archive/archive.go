// Package archive keeps a history of digest runs in a SQLite database.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rishirsv/pfdigest"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when a run is not in the archive.
var ErrNotFound = errors.New("run not found")

// Archive is an open run archive.
type Archive struct {
	db *sql.DB
}

// RunInfo describes an archived run.
type RunInfo struct {
	ID        string
	Generated time.Time
	Digests   int
	Rows      int
	Skipped   int
}

// Open opens the archive at path, creating and migrating it as needed.
func Open(ctx context.Context, path string) (*Archive, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive at %s: %w", path, err)
	}
	// Limit open connections to 1 for SQLite to avoid locking issues
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive: %w", err)
	}
	if err := migrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func migrateUp(ctx context.Context, db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("reading archive migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migration instance creation failed: %w", err)
	}
	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		zerolog.Ctx(ctx).Debug().Msg("archive schema up to date")
	case err != nil:
		return fmt.Errorf("failed to apply archive migrations: %w", err)
	default:
		zerolog.Ctx(ctx).Info().Msg("archive schema migrated")
	}
	return nil
}

// Close closes the archive.
func (a *Archive) Close() error { return a.db.Close() }

// Save stores a run and one line per digest. Saving a run id twice
// replaces the previous copy.
func (a *Archive) Save(ctx context.Context, r *pfdigest.Run) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", r.ID, err)
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, r.ID); err != nil {
		return fmt.Errorf("replacing run %s: %w", r.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, generated_at, skipped, body) VALUES (?, ?, ?, ?)`,
		r.ID, r.Generated.UTC().Format(time.RFC3339), r.Skipped(), string(body)); err != nil {
		return fmt.Errorf("saving run %s: %w", r.ID, err)
	}
	for _, t := range r.Digests {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO digests (run_id, name, title, row_count, skipped) VALUES (?, ?, ?, ?, ?)`,
			r.ID, t.Name, t.Title, t.Len(), t.Skipped); err != nil {
			return fmt.Errorf("saving digest %s of run %s: %w", t.Name, r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", r.ID, err)
	}
	zerolog.Ctx(ctx).Info().Str("run", r.ID).Int("digests", len(r.Digests)).Msg("run archived")
	return nil
}

// Runs lists the most recent runs first. A limit of zero lists them all.
func (a *Archive) Runs(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT r.id, r.generated_at, r.skipped, COUNT(d.name), COALESCE(SUM(d.row_count), 0)
		FROM runs r LEFT JOIN digests d ON d.run_id = r.id
		GROUP BY r.id
		ORDER BY r.generated_at DESC, r.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var (
			info      RunInfo
			generated string
		)
		if err := rows.Scan(&info.ID, &generated, &info.Skipped, &info.Digests, &info.Rows); err != nil {
			return nil, fmt.Errorf("reading run: %w", err)
		}
		if info.Generated, err = time.Parse(time.RFC3339, generated); err != nil {
			return nil, fmt.Errorf("run %s: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Load returns the JSON form of an archived run. An empty id loads the
// latest run.
func (a *Archive) Load(ctx context.Context, id string) (json.RawMessage, error) {
	var (
		body string
		err  error
	)
	if id == "" {
		err = a.db.QueryRowContext(ctx, `SELECT body FROM runs ORDER BY generated_at DESC, id LIMIT 1`).Scan(&body)
	} else {
		err = a.db.QueryRowContext(ctx, `SELECT body FROM runs WHERE id = ?`, id).Scan(&body)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %q: %w", id, err)
	}
	return json.RawMessage(body), nil
}
