package dwhetl

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Pipeline completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid or missing dwh.cfg
	ExitConnectionError = 11 // Failed to connect to the cluster
	ExitExecutionFailed = 13 // SQL statement failed
	ExitQueriesMissing  = 14 // Statement manifest not found
	ExitRenderFailed    = 15 // Result table could not be rendered
)

const (
	// DefaultConfigFile is the configuration file read when no path is given.
	DefaultConfigFile = "dwh.cfg"

	// DefaultQueriesFile is the statement manifest read when no path is given.
	DefaultQueriesFile = "sql_queries.yaml"

	// ClusterSection is the dwh.cfg section holding connection values.
	ClusterSection = "CLUSTER"

	// ClusterValueCount is the number of positional CLUSTER values consumed:
	// host, dbname, user, password, port.
	ClusterValueCount = 5

	// DefaultAppName is reported to the server as application_name.
	DefaultAppName = "dwhetl"

	// MaxErrorPreviewLength is the maximum number of characters of a failed
	// statement shown in error messages.
	MaxErrorPreviewLength = 200

	// EnvConfigPath overrides DefaultConfigFile.
	EnvConfigPath = "DWHETL_CONFIG"

	// EnvQueriesPath overrides DefaultQueriesFile.
	EnvQueriesPath = "DWHETL_QUERIES"
)
