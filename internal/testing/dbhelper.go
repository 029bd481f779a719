package testing

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/internal/testinfra"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartSimplePostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: DWHETL_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("DWHETL_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("DWHETL_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// RequireCluster is RequireDatabase expressed as the [CLUSTER] values a
// dwh.cfg would carry.
func RequireCluster(t *testing.T) config.ClusterConfig {
	t.Helper()

	connString := RequireDatabase(t)
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	return config.ClusterConfig{
		Host:     cfg.Host,
		DBName:   cfg.Database,
		User:     cfg.User,
		Password: cfg.Password,
		Port:     strconv.Itoa(int(cfg.Port)),
	}
}

// CreateTestSchema creates a uniquely named schema and drops it when the test
// completes. Tests qualify their tables with the returned name so runs never
// collide.
func CreateTestSchema(t *testing.T, connString string) string {
	t.Helper()

	ctx := context.Background()
	schema := "dwhetl_test_" + uuid.New().String()[:8]

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for schema creation: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		t.Fatalf("Failed to create test schema %s: %v", schema, err)
	}

	t.Cleanup(func() {
		DropTestSchema(t, connString, schema)
	})
	return schema
}

// DropTestSchema drops the schema and everything in it.
// Safe to call multiple times (uses DROP SCHEMA IF EXISTS).
func DropTestSchema(t *testing.T, connString, schema string) {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema)); err != nil {
		t.Logf("Warning: Failed to drop schema %s: %v", schema, err)
	}
}

// QueryInt runs a single-value integer query against connString.
func QueryInt(t *testing.T, connString, sql string) int64 {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	var n int64
	if err := conn.QueryRow(ctx, sql).Scan(&n); err != nil {
		t.Fatalf("Query %q failed: %v", sql, err)
	}
	return n
}
