package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Session implements dwhetl.Session on a single pinned database/sql
// connection. The first statement after a commit opens a transaction that
// stays open until Commit, mirroring the driver-default behavior of a
// DB-API cursor.
//
// Thread-Safety: NOT safe for concurrent use.
type Session struct {
	db     *sql.DB
	conn   *sql.Conn
	tx     *sql.Tx
	closed bool
}

// NewSession pins one connection from db. The Session takes ownership of db
// and closes it on Close.
func NewSession(ctx context.Context, db *sql.DB) (*Session, error) {
	if db == nil {
		panic("db cannot be nil")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return &Session{db: db, conn: conn}, nil
}

// Ping verifies the pinned connection is alive.
func (s *Session) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *Session) begin(ctx context.Context) (*sql.Tx, error) {
	if s.closed {
		return nil, errors.New("session is closed")
	}
	if s.tx != nil {
		return s.tx, nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

// Exec executes a statement inside the open transaction.
func (s *Session) Exec(ctx context.Context, query string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query)
	return err
}

// Query executes a statement inside the open transaction and reads every row
// before returning, so the result survives the following Commit.
func (s *Session) Query(ctx context.Context, query string) (*dwhetl.ResultTable, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResultTable(rows)
}

// Commit commits the open transaction, if any.
func (s *Session) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

// Close rolls back uncommitted work, releases the connection and closes the
// underlying database handle. Calling Close more than once is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, fmt.Errorf("rollback: %w", err))
		}
		s.tx = nil
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, fmt.Errorf("release connection: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

func scanResultTable(rows *sql.Rows) (*dwhetl.ResultTable, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &dwhetl.ResultTable{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
