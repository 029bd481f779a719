package dwhetl

import "context"

// Session is a single live connection to the warehouse together with its
// statement-execution handle. Statements run inside an implicit transaction
// that stays open until Commit.
//
// Thread-Safety: NOT safe for concurrent use. The pipeline owns exactly one
// Session for its whole run.
type Session interface {
	// Exec executes a statement that returns no rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a statement and materializes its complete result set.
	Query(ctx context.Context, sql string) (*ResultTable, error)

	// Commit commits the open transaction. It is a no-op when none is open.
	Commit(ctx context.Context) error

	// Close releases the connection. Uncommitted work is rolled back.
	// Close is idempotent.
	Close() error
}

// Connector opens a Session to the warehouse.
type Connector interface {
	// Connect establishes the connection. The caller must Close the Session.
	Connect(ctx context.Context) (Session, error)
}
