package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// StandardConnector implements dwhetl.Connector for password authentication
// against the cluster described by the CLUSTER section. It makes one attempt;
// there is no retry.
type StandardConnector struct {
	cluster config.ClusterConfig
	appName string
	logger  dwhetl.Logger
}

// NewStandardConnector creates a StandardConnector. appName is reported to
// the server as application_name; empty means dwhetl.DefaultAppName.
func NewStandardConnector(cluster config.ClusterConfig, appName string, logger dwhetl.Logger) *StandardConnector {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if appName == "" {
		appName = dwhetl.DefaultAppName
	}
	return &StandardConnector{
		cluster: cluster,
		appName: appName,
		logger:  logger,
	}
}

// Connect opens a single connection and returns it as a Session.
func (c *StandardConnector) Connect(ctx context.Context) (dwhetl.Session, error) {
	connConfig, err := c.connConfig()
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	session, err := NewSession(ctx, db)
	if err != nil {
		db.Close()
		return nil, wrapConnectionError(err, c.cluster)
	}

	if err := session.Ping(ctx); err != nil {
		session.Close()
		return nil, wrapConnectionError(err, c.cluster)
	}

	return session, nil
}

func (c *StandardConnector) connConfig() (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(BuildConnectionString(c.cluster))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %v: %w", err, dwhetl.ErrInvalidConfig)
	}

	// Redshift rejects parts of the extended protocol used for statement caching.
	connConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	connConfig.RuntimeParams["application_name"] = c.appName
	connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		c.logger.Verbose("NOTICE: %s", notice.Message)
	}
	return connConfig, nil
}

// wrapConnectionError wraps raw driver connection errors with actionable guidance.
func wrapConnectionError(err error, cluster config.ClusterConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := cluster.Host + ":" + cluster.Port

	var guided error
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		guided = fmt.Errorf(`connection refused to %s

Possible causes:
  - Cluster is paused, resizing or not yet available
  - Wrong host or port in [CLUSTER]
  - Firewall blocking the connection

Original error: %w`, addr, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		guided = fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Cluster endpoint is misspelled in [CLUSTER]
  - Cluster was deleted or renamed
  - DNS is not configured or reachable

Original error: %w`, cluster.Host, err)

	case strings.Contains(errStr, "password authentication failed"):
		guided = fmt.Errorf(`password authentication failed for user "%s" on database "%s"

Possible causes:
  - Wrong password (value 4 of [CLUSTER])
  - Wrong user (value 3 of [CLUSTER])
  - User does not have access to the database

Original error: %w`, cluster.User, cluster.DBName, err)

	case strings.Contains(errStr, "does not exist"):
		guided = fmt.Errorf(`database "%s" does not exist

Check value 2 of [CLUSTER] against the cluster's database name.

Original error: %w`, cluster.DBName, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		guided = fmt.Errorf(`connection timed out to %s

Possible causes:
  - Cluster is not publicly accessible
  - VPC security group has no inbound rule for port %s
  - Network latency or packet loss

Original error: %w`, addr, cluster.Port, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		guided = fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Cluster parameter group sets require_ssl
  - Certificate verification failed

Original error: %w`, err)

	default:
		guided = fmt.Errorf("failed to connect to database: %w", err)
	}

	return fmt.Errorf("%w: %w", dwhetl.ErrConnectionFailed, guided)
}
