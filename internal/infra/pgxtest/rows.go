// Package pgxtest provides in-memory pgx rows for tests of code written
// against infra.SQLExecutor.
package pgxtest

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SimpleRow is a pgx.Row backed by a scan function. A nil function behaves
// like a query without results.
type SimpleRow struct {
	scan func(dest ...any) error
}

func NewSimpleRow(scanner func(dest ...any) error) SimpleRow {
	return SimpleRow{scan: scanner}
}

func (r SimpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// ValuesRow returns a row that scans values into matching destinations.
func ValuesRow(values ...any) SimpleRow {
	return NewSimpleRow(func(dest ...any) error { return assign(dest, values) })
}

// ErrRow returns a row whose Scan fails with err.
func ErrRow(err error) SimpleRow {
	return NewSimpleRow(func(dest ...any) error { return err })
}

type TestRowsBase struct{}

func (TestRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (TestRowsBase) Conn() *pgx.Conn { return nil }

func (TestRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (TestRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (TestRowsBase) RawValues() [][]byte { return nil }

// Rows iterates over fixed records.
type Rows struct {
	TestRowsBase
	records [][]any
	pos     int
	closed  bool
}

var _ pgx.Rows = (*Rows)(nil)

func NewRows(records ...[]any) *Rows {
	return &Rows{records: records}
}

func (r *Rows) Next() bool {
	if r.closed || r.pos >= len(r.records) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.records) {
		return fmt.Errorf("scan called without a current row")
	}
	return assign(dest, r.records[r.pos-1])
}

func (r *Rows) Err() error { return nil }

func (r *Rows) Close() { r.closed = true }

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		v := reflect.ValueOf(values[i])
		if !v.IsValid() {
			target.Elem().SetZero()
			continue
		}
		if !v.Type().AssignableTo(target.Elem().Type()) {
			if !v.Type().ConvertibleTo(target.Elem().Type()) {
				return fmt.Errorf("scan: cannot assign %T to %s", values[i], target.Elem().Type())
			}
			v = v.Convert(target.Elem().Type())
		}
		target.Elem().Set(v)
	}
	return nil
}
