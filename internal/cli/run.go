package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/internal/db"
	"github.com/vvka-141/dwhetl/internal/logging"
	"github.com/vvka-141/dwhetl/internal/queries"
	"github.com/vvka-141/dwhetl/internal/render"
	"github.com/vvka-141/dwhetl/internal/services"
	"github.com/vvka-141/dwhetl/internal/tui"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the copy, insert and analytic phases",
	Long: `Run connects to the cluster in dwh.cfg and executes, in order:

  1. every copy statement (staging loads)
  2. every insert statement (analytics tables)
  3. every analytic query, printing each result as a table on stdout

Each statement is committed before the next one starts. The first failure
stops the run; statements already committed stay committed. Diagnostics go
to stderr so stdout can be redirected.

dwh.cfg:
  The [CLUSTER] section supplies host, dbname, user, password and port,
  read in that order regardless of key names. An empty password is
  prompted for when stdin is a terminal.

Examples:
  dwhetl run
  dwhetl run --config prod/dwh.cfg --queries prod/sql_queries.yaml
  dwhetl run --format markdown > report.md
  dwhetl run --dry-run`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

type runFlagValues struct {
	configPath  string
	queriesPath string
	format      string
	dryRun      bool
}

var runFlags runFlagValues

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.configPath, "config", "c", "",
		"Path to dwh.cfg\n"+
			"Precedence: --config > $"+dwhetl.EnvConfigPath+" > ./"+dwhetl.DefaultConfigFile)
	runCmd.Flags().StringVarP(&runFlags.queriesPath, "queries", "q", "",
		"Path to the statement manifest\n"+
			"Precedence: --queries > $"+dwhetl.EnvQueriesPath+" > ./"+dwhetl.DefaultQueriesFile)
	runCmd.Flags().StringVarP(&runFlags.format, "format", "f", string(render.FormatTable),
		"Result table format: table|markdown|csv|html")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false,
		"Print the ordered statements without connecting")
}

// resolvePath applies flag > environment variable > default precedence.
func resolvePath(flagValue, envVar, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultValue
}

// loadRunInputs reads dwh.cfg and the manifest named by the run flags.
func loadRunInputs(logger dwhetl.Logger) (*config.Config, *dwhetl.Plan, error) {
	_ = godotenv.Load()

	configPath := resolvePath(runFlags.configPath, dwhetl.EnvConfigPath, dwhetl.DefaultConfigFile)
	queriesPath := resolvePath(runFlags.queriesPath, dwhetl.EnvQueriesPath, dwhetl.DefaultQueriesFile)
	logger.Verbose("Config: %s", configPath)
	logger.Verbose("Statements: %s", queriesPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	plan, err := queries.Load(queriesPath, cfg.Sections)
	if err != nil {
		return nil, nil, err
	}

	return cfg, plan, nil
}

// ensurePassword prompts for an empty [CLUSTER] password when a terminal is
// attached.
func ensurePassword(cluster *config.ClusterConfig) error {
	if cluster.Password != "" {
		return nil
	}

	password, err := tui.PromptPassword(fmt.Sprintf("Password for %s@%s: ", cluster.User, cluster.Host))
	if errors.Is(err, tui.ErrNotInteractive) {
		return nil
	}
	if err != nil {
		return err
	}
	cluster.Password = password
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	cfg, plan, err := loadRunInputs(logger)
	if err != nil {
		return err
	}

	runConfig := dwhetl.RunConfig{
		Plan:    plan,
		Format:  runFlags.format,
		DryRun:  runFlags.dryRun,
		Verbose: verbose,
	}

	if !runConfig.DryRun {
		if err := cfg.Cluster.Validate(); err != nil {
			return fmt.Errorf("%s: [%s]: %w", cfg.Path, dwhetl.ClusterSection, err)
		}
		if err := ensurePassword(&cfg.Cluster); err != nil {
			return err
		}
		logger.Verbose("Cluster: %s", db.RedactConnectionString(cfg.Cluster))
	}

	cluster := cfg.Cluster
	factory := func(appName string) (dwhetl.Connector, error) {
		return db.NewStandardConnector(cluster, appName, logger), nil
	}
	pipeline := services.NewPipelineService(factory, logger, cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return pipeline.Run(ctx, runConfig)
}
