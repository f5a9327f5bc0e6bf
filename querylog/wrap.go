package querylog

import (
	"context"
	"database/sql"
	"time"
)

// Queryer is the query surface shared by *sql.DB, *sql.Tx and *sql.Conn.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB records every query issued through it into the Log carried by the call's context.
type DB struct {
	q Queryer
}

// Wrap returns a recording Queryer around q.
func Wrap(q Queryer) *DB {
	if q == nil {
		panic("querylog: nil Queryer")
	}
	return &DB{q: q}
}

// Unwrap returns the wrapped Queryer.
func (d *DB) Unwrap() Queryer { return d.q }

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.q.ExecContext(ctx, query, args...)
	d.record(ctx, query, len(args), start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.q.QueryContext(ctx, query, args...)
	d.record(ctx, query, len(args), start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.q.QueryRowContext(ctx, query, args...)
	d.record(ctx, query, len(args), start, row.Err())
	return row
}

func (d *DB) record(ctx context.Context, query string, nargs int, start time.Time, err error) {
	l, ok := FromContext(ctx)
	if !ok {
		return
	}
	e := Entry{Query: query, Args: nargs, Started: start, Duration: time.Since(start)}
	if err != nil {
		e.Err = err.Error()
	}
	l.Add(e)
}
