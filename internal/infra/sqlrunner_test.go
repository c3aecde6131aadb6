package infra

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"workshop/internal/infra/pgxtest"
)

func TestExtractMarker(t *testing.T) {
	query := `
--sql 0d9f3b61-8f2a-4c55-9a4e-3c1f7e2b9a10
SELECT 1`
	marker, body, err := extractMarker(query)
	if err != nil {
		t.Fatalf("extractMarker: %v", err)
	}
	if marker != "0d9f3b61-8f2a-4c55-9a4e-3c1f7e2b9a10" {
		t.Fatalf("marker = %q", marker)
	}
	if body != "SELECT 1" {
		t.Fatalf("body = %q", body)
	}
}

func TestExtractMarkerRejectsUntagged(t *testing.T) {
	for _, q := range []string{"", "SELECT 1", "--sql not-a-uuid\nSELECT 1"} {
		if _, _, err := extractMarker(q); err == nil {
			t.Fatalf("extractMarker(%q) expected error", q)
		}
	}
}

type fakeExecutor struct {
	lastQuery string
	execErr   error
	delay     time.Duration
}

func (f *fakeExecutor) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	f.lastQuery = query
	time.Sleep(f.delay)
	return pgconn.NewCommandTag("UPDATE 1"), f.execErr
}

func (f *fakeExecutor) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	f.lastQuery = query
	return pgxtest.ErrRow(pgx.ErrNoRows)
}

func (f *fakeExecutor) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	f.lastQuery = query
	return pgxtest.NewRows([]any{"a"}), nil
}

const taggedUpdate = "--sql 0d9f3b61-8f2a-4c55-9a4e-3c1f7e2b9a10\nUPDATE t SET x = 1"

func TestSQLRunnerStripsMarker(t *testing.T) {
	db := &fakeExecutor{}
	runner := NewSQLRunner(db, zerolog.Nop(), 0)
	if _, err := runner.Exec(context.Background(), taggedUpdate); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if db.lastQuery != "UPDATE t SET x = 1" {
		t.Fatalf("query = %q", db.lastQuery)
	}
	if _, err := runner.Exec(context.Background(), "UPDATE t SET x = 1"); err == nil {
		t.Fatalf("expected marker error")
	}
	if db.lastQuery != "UPDATE t SET x = 1" {
		t.Fatalf("untagged query reached the database")
	}
}

func TestSQLRunnerLogsErrorsAndSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	db := &fakeExecutor{execErr: errors.New("boom")}
	runner := NewSQLRunner(db, zerolog.New(&buf), time.Millisecond)
	_, _ = runner.Exec(context.Background(), taggedUpdate)
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "0d9f3b61") {
		t.Fatalf("missing error line: %s", buf.String())
	}

	buf.Reset()
	db.execErr = nil
	db.delay = 5 * time.Millisecond
	_, _ = runner.Exec(context.Background(), taggedUpdate)
	if !strings.Contains(buf.String(), `"slow":true`) {
		t.Fatalf("missing slow line: %s", buf.String())
	}
}

func TestSQLRunnerNoRowsIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	runner := NewSQLRunner(&fakeExecutor{}, zerolog.New(&buf).Level(zerolog.WarnLevel), 0)
	var v string
	err := runner.QueryRow(context.Background(), "--sql 0d9f3b61-8f2a-4c55-9a4e-3c1f7e2b9a10\nSELECT x FROM t").Scan(&v)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}

	rows, err := runner.Query(context.Background(), "--sql 0d9f3b61-8f2a-4c55-9a4e-3c1f7e2b9a10\nSELECT x FROM t")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for rows.Next() {
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("Scan: %v", err)
		}
	}
	rows.Close()
	rows.Close()
	if v != "a" || buf.Len() != 0 {
		t.Fatalf("v = %q log = %s", v, buf.String())
	}
}
