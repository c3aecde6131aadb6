package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLExecutor is what repositories need to run queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var (
	markerRegexp = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

	errEmptyQuery    = errors.New("empty query")
	errMissingMarker = errors.New("sql marker missing or invalid")
)

// SQLRunner runs marker-tagged queries on a pool. The first line of every
// query must be "--sql <uuid>" so log lines can be traced back to the
// statement. Queries slower than Slow are logged at warn level.
type SQLRunner struct {
	DB     SQLExecutor
	Logger zerolog.Logger
	Slow   time.Duration
}

// NewSQLRunner wraps db, usually a *pgxpool.Pool.
func NewSQLRunner(db SQLExecutor, logger zerolog.Logger, slow time.Duration) *SQLRunner {
	return &SQLRunner{DB: db, Logger: logger, Slow: slow}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, body, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.DB.Exec(ctx, body, args...)
	r.done(marker, "exec", start, err)
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, body, err := extractMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return &timedRow{
		row:    r.DB.QueryRow(ctx, body, args...),
		runner: r,
		marker: marker,
		start:  time.Now(),
	}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, body, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.DB.Query(ctx, body, args...)
	if err != nil {
		r.done(marker, "query", start, err)
		return nil, err
	}
	return &timedRows{Rows: rows, runner: r, marker: marker, start: start}, nil
}

// done logs the outcome of one statement. pgx.ErrNoRows is a normal result.
func (r *SQLRunner) done(marker, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	var event *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		event = r.Logger.Error().Err(err)
	case r.Slow > 0 && elapsed >= r.Slow:
		event = r.Logger.Warn().Bool("slow", true)
	default:
		event = r.Logger.Debug()
	}
	event.Str("sql", marker).Str("op", op).Dur("duration", elapsed).Msg("sql statement")
}

type timedRow struct {
	row    pgx.Row
	runner *SQLRunner
	marker string
	start  time.Time
}

func (t *timedRow) Scan(dest ...any) error {
	err := t.row.Scan(dest...)
	t.runner.done(t.marker, "query_row", t.start, err)
	return err
}

type timedRows struct {
	pgx.Rows
	runner *SQLRunner
	marker string
	start  time.Time
	closed bool
}

func (t *timedRows) Close() {
	t.Rows.Close()
	if t.closed {
		return
	}
	t.closed = true
	t.runner.done(t.marker, "query", t.start, t.Rows.Err())
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(...any) error {
	return e.err
}

// extractMarker splits a tagged query into its marker uuid and the SQL body.
func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", "", errEmptyQuery
	}
	first, body, _ := strings.Cut(trimmed, "\n")
	m := markerRegexp.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return "", "", errMissingMarker
	}
	return m[1], strings.TrimSpace(body), nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
