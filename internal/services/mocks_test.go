package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// recordingSession records every call in order.
type recordingSession struct {
	calls      []string
	failSQL    string
	failErr    error
	failCommit int // 1-based commit number that fails; 0 never
	closeErr   error
	closed     int
	results    map[string]*dwhetl.ResultTable
	commits    int
}

func (m *recordingSession) Exec(_ context.Context, sql string) error {
	m.calls = append(m.calls, "exec:"+sql)
	if sql == m.failSQL {
		return m.failErr
	}
	return nil
}

func (m *recordingSession) Query(_ context.Context, sql string) (*dwhetl.ResultTable, error) {
	m.calls = append(m.calls, "query:"+sql)
	if sql == m.failSQL {
		return nil, m.failErr
	}
	if r, ok := m.results[sql]; ok {
		return r, nil
	}
	return &dwhetl.ResultTable{Columns: []string{"?column?"}, Rows: [][]any{{int64(1)}}}, nil
}

func (m *recordingSession) Commit(_ context.Context) error {
	m.calls = append(m.calls, "commit")
	m.commits++
	if m.failCommit != 0 && m.commits == m.failCommit {
		return errors.New("commit failed")
	}
	return nil
}

func (m *recordingSession) Close() error {
	m.closed++
	return m.closeErr
}

type mockConnector struct {
	session  dwhetl.Session
	err      error
	connects int
}

func (m *mockConnector) Connect(_ context.Context) (dwhetl.Session, error) {
	m.connects++
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func factoryFor(c *mockConnector) ConnectorFactory {
	return func(_ string) (dwhetl.Connector, error) { return c, nil }
}

type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func statements(names ...string) []dwhetl.Statement {
	stmts := make([]dwhetl.Statement, len(names))
	for i, n := range names {
		stmts[i] = dwhetl.Statement{Name: n, SQL: n}
	}
	return stmts
}
