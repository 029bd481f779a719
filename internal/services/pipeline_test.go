package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dwhetl/internal/logging"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func samplePlan() *dwhetl.Plan {
	return &dwhetl.Plan{
		Copy:     statements("copy_events", "copy_songs"),
		Insert:   statements("insert_users", "insert_songs", "insert_songplays"),
		Analytic: statements("plays_by_level"),
	}
}

func TestNewPipelineService_PanicsOnNil(t *testing.T) {
	factory := factoryFor(&mockConnector{})
	logger := logging.NewNullLogger()
	out := &bytes.Buffer{}

	assert.Panics(t, func() { NewPipelineService(nil, logger, out) })
	assert.Panics(t, func() { NewPipelineService(factory, nil, out) })
	assert.Panics(t, func() { NewPipelineService(factory, logger, nil) })
	assert.NotPanics(t, func() { NewPipelineService(factory, logger, out) })
}

func TestRun_EndToEnd(t *testing.T) {
	session := &recordingSession{results: map[string]*dwhetl.ResultTable{
		"plays_by_level": {
			Columns: []string{"level", "plays", "top_location"},
			Rows: [][]any{
				{"free", int64(12), nil},
				{"paid", int64(30), "San Francisco"},
			},
		},
	}}
	connector := &mockConnector{session: session}
	var out bytes.Buffer

	svc := NewPipelineService(factoryFor(connector), logging.NewNullLogger(), &out)
	err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"exec:copy_events", "commit",
		"exec:copy_songs", "commit",
		"exec:insert_users", "commit",
		"exec:insert_songs", "commit",
		"exec:insert_songplays", "commit",
		"query:plays_by_level", "commit",
	}, session.calls)
	assert.Equal(t, 1, connector.connects)
	assert.Equal(t, 1, session.closed)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	borders := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "+-") {
			borders++
		}
	}
	assert.Equal(t, 3, borders, "one table: top, header separator, bottom")
	assert.Len(t, lines, 6, "borders, header and two rows")
	assert.Contains(t, out.String(), "San Francisco")
	assert.Contains(t, out.String(), "NULL")
}

func TestRun_FailFastClosesSession(t *testing.T) {
	driverErr := errors.New("ERROR: Load into table 'staging_events' failed")
	session := &recordingSession{failSQL: "copy_events", failErr: driverErr}
	connector := &mockConnector{session: session}
	var out bytes.Buffer

	svc := NewPipelineService(factoryFor(connector), logging.NewNullLogger(), &out)
	err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})
	require.Error(t, err)

	assert.ErrorIs(t, err, dwhetl.ErrExecutionFailed)
	assert.Equal(t, dwhetl.ExitExecutionFailed, dwhetl.ExitCodeForError(err))
	assert.Equal(t, []string{"exec:copy_events"}, session.calls)
	assert.Equal(t, 1, session.closed)
	assert.Empty(t, out.String())
}

func TestRun_InsertFailureSkipsAnalytics(t *testing.T) {
	session := &recordingSession{failSQL: "insert_songs", failErr: errors.New("boom")}
	connector := &mockConnector{session: session}
	var out bytes.Buffer

	svc := NewPipelineService(factoryFor(connector), logging.NewNullLogger(), &out)
	err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), `phase "insert": statement 2 (insert_songs) failed`)
	for _, call := range session.calls {
		assert.False(t, strings.HasPrefix(call, "query:"), "analytic phase must not start")
	}
	assert.Equal(t, 1, session.closed)
	assert.Empty(t, out.String())
}

func TestRun_ConnectFailureDoesNotClose(t *testing.T) {
	connectErr := errors.New("dial tcp: connection refused")
	connector := &mockConnector{err: connectErr}

	svc := NewPipelineService(factoryFor(connector), logging.NewNullLogger(), &bytes.Buffer{})
	err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})

	require.ErrorIs(t, err, connectErr)
	assert.Equal(t, 1, connector.connects)
}

func TestRun_FactoryError(t *testing.T) {
	factoryErr := errors.New("no connector")
	svc := NewPipelineService(func(string) (dwhetl.Connector, error) { return nil, factoryErr },
		logging.NewNullLogger(), &bytes.Buffer{})

	err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})
	require.ErrorIs(t, err, factoryErr)
}

func TestRun_AppNameCarriesRunID(t *testing.T) {
	var got string
	connector := &mockConnector{session: &recordingSession{}}
	factory := func(appName string) (dwhetl.Connector, error) {
		got = appName
		return connector, nil
	}

	svc := NewPipelineService(factory, logging.NewNullLogger(), &bytes.Buffer{})
	require.NoError(t, svc.Run(context.Background(), dwhetl.RunConfig{Plan: &dwhetl.Plan{}, Format: "table"}))

	assert.True(t, strings.HasPrefix(got, dwhetl.DefaultAppName+"-"), got)
	assert.Len(t, got, len(dwhetl.DefaultAppName)+1+8)
}

func TestRun_CloseError(t *testing.T) {
	closeErr := errors.New("connection reset")

	t.Run("returned on success", func(t *testing.T) {
		session := &recordingSession{closeErr: closeErr}
		svc := NewPipelineService(factoryFor(&mockConnector{session: session}), logging.NewNullLogger(), &bytes.Buffer{})

		err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})
		require.ErrorIs(t, err, closeErr)
		assert.Contains(t, err.Error(), "failed to close connection")
	})

	t.Run("logged when a statement failed", func(t *testing.T) {
		execErr := errors.New("exec failed")
		session := &recordingSession{closeErr: closeErr, failSQL: "copy_songs", failErr: execErr}
		logger := &mockLogger{}
		svc := NewPipelineService(factoryFor(&mockConnector{session: session}), logger, &bytes.Buffer{})

		err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table"})
		require.ErrorIs(t, err, execErr)
		assert.NotErrorIs(t, err, closeErr)
		require.Len(t, logger.errors, 1)
		assert.Contains(t, logger.errors[0], "connection reset")
	})
}

func TestRun_DryRunDoesNotConnect(t *testing.T) {
	connector := &mockConnector{session: &recordingSession{}}
	var out bytes.Buffer

	svc := NewPipelineService(factoryFor(connector), logging.NewNullLogger(), &out)
	err := svc.Run(context.Background(), dwhetl.RunConfig{Plan: samplePlan(), Format: "table", DryRun: true})
	require.NoError(t, err)

	assert.Zero(t, connector.connects)
	output := out.String()
	for _, name := range []string{"copy_events", "insert_songplays", "plays_by_level"} {
		assert.Contains(t, output, name)
	}
	assert.Less(t, strings.Index(output, "copy_songs"), strings.Index(output, "insert_users"))
}

func TestRun_InvalidConfigDoesNotConnect(t *testing.T) {
	tests := []struct {
		name   string
		config dwhetl.RunConfig
	}{
		{"missing plan", dwhetl.RunConfig{Format: "table"}},
		{"missing format", dwhetl.RunConfig{Plan: samplePlan()}},
		{"unknown format", dwhetl.RunConfig{Plan: samplePlan(), Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector := &mockConnector{session: &recordingSession{}}
			svc := NewPipelineService(factoryFor(connector), logging.NewNullLogger(), &bytes.Buffer{})

			err := svc.Run(context.Background(), tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, dwhetl.ErrInvalidConfig)
			assert.Zero(t, connector.connects)
		})
	}
}
