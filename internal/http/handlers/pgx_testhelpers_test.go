package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

// fakeSQL routes statements to scripted responders keyed by the UUID on the
// statement's marker line.
type fakeSQL struct {
	rowFn  map[string]func(args ...any) simpleRow
	rowsFn map[string]func(args ...any) (pgx.Rows, error)
	execFn map[string]func(args ...any) (pgconn.CommandTag, error)
}

func newFakeSQL() *fakeSQL {
	return &fakeSQL{
		rowFn:  make(map[string]func(args ...any) simpleRow),
		rowsFn: make(map[string]func(args ...any) (pgx.Rows, error)),
		execFn: make(map[string]func(args ...any) (pgconn.CommandTag, error)),
	}
}

func queryMarker(query string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(query), "\n")
	return strings.TrimSpace(strings.TrimPrefix(line, "--sql "))
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if fn, ok := f.rowFn[queryMarker(query)]; ok {
		return fn(args...)
	}
	return simpleRow{}
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if fn, ok := f.rowsFn[queryMarker(query)]; ok {
		return fn(args...)
	}
	return nil, fmt.Errorf("unexpected query %s", queryMarker(query))
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if fn, ok := f.execFn[queryMarker(query)]; ok {
		return fn(args...)
	}
	return pgconn.CommandTag{}, nil
}

func scanInto(dest any, v any) {
	switch d := dest.(type) {
	case *string:
		*d = v.(string)
	case *int:
		*d = v.(int)
	case *bool:
		*d = v.(bool)
	case *[]byte:
		*d = v.([]byte)
	case *time.Time:
		*d = v.(time.Time)
	default:
		panic(fmt.Sprintf("unsupported scan dest %T", dest))
	}
}
