package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/internal/logging"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func testCluster() config.ClusterConfig {
	return config.ClusterConfig{
		Host:     "dwh.example.com",
		DBName:   "dwh",
		User:     "dwhuser",
		Password: "secret",
		Port:     "5439",
	}
}

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		wantContains string
	}{
		{"connection refused", "dial tcp 10.0.0.1:5439: connection refused", "connection refused to dwh.example.com:5439"},
		{"actively refused (Windows)", "connectex: No connection could be made because the target machine actively refused it", "connection refused to dwh.example.com:5439"},
		{"no such host", "dial tcp: lookup dwh.example.com: no such host", `cannot resolve host "dwh.example.com"`},
		{"password auth failed", `password authentication failed for user "dwhuser"`, `password authentication failed for user "dwhuser" on database "dwh"`},
		{"database does not exist", `database "dwh" does not exist`, `database "dwh" does not exist`},
		{"timeout", "dial tcp 10.0.0.1:5439: i/o timeout", "inbound rule for port 5439"},
		{"ssl", "server refused TLS connection", "SSL/TLS connection error"},
		{"unknown", "something odd", "failed to connect to database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := errors.New(tt.errMsg)
			err := wrapConnectionError(raw, testCluster())

			if !strings.Contains(err.Error(), tt.wantContains) {
				t.Errorf("expected %q in:\n%s", tt.wantContains, err.Error())
			}
			assert.ErrorIs(t, err, raw)
			assert.ErrorIs(t, err, dwhetl.ErrConnectionFailed)
			assert.Equal(t, dwhetl.ExitConnectionError, dwhetl.ExitCodeForError(err))
		})
	}
}

func TestStandardConnector_ConnConfig(t *testing.T) {
	connector := NewStandardConnector(testCluster(), "", logging.NewNullLogger())

	cfg, err := connector.connConfig()
	require.NoError(t, err)

	assert.Equal(t, "dwh.example.com", cfg.Host)
	assert.Equal(t, uint16(5439), cfg.Port)
	assert.Equal(t, dwhetl.DefaultAppName, cfg.RuntimeParams["application_name"])
	assert.NotNil(t, cfg.OnNotice)
}

func TestStandardConnector_InvalidPort(t *testing.T) {
	cluster := testCluster()
	cluster.Port = "not-a-port"
	connector := NewStandardConnector(cluster, "dwhetl-test", logging.NewNullLogger())

	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dwhetl.ErrInvalidConfig)
	assert.NotContains(t, err.Error(), "secret")
}

func TestNewStandardConnector_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { NewStandardConnector(testCluster(), "", nil) })
}
