package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dwhetl/internal/logging"
	"github.com/vvka-141/dwhetl/internal/scaffold"
	"github.com/vvka-141/dwhetl/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Create a starter dwh.cfg and sql_queries.yaml",
	Long: `Initialize a dwhetl project in the specified directory (default: current).

The project contains:
- dwh.cfg with [CLUSTER], [IAM_ROLE] and [S3] sections
- sql_queries.yaml with copy, insert and analytic statements for a
  song-play star schema

Target directory must be empty or non-existent.

Examples:
  dwhetl init                 # Initialize in current directory
  dwhetl init ./warehouse     # Initialize in ./warehouse`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initTemplate string
	initList     bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", scaffold.DefaultTemplate, "Template to use")
	initCmd.Flags().BoolVar(&initList, "list", false, "List available templates")
}

func runInit(cmd *cobra.Command, args []string) error {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if initList {
		for _, t := range templates {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	}

	if !slices.Contains(templates, initTemplate) {
		return fmt.Errorf("invalid template '%s'. Available templates: %v", initTemplate, templates)
	}

	targetPath := "."
	if len(args) == 1 {
		targetPath = args[0]
	}

	projectName := filepath.Base(targetPath)
	if projectName == "." || projectName == ".." {
		if cwd, err := os.Getwd(); err == nil {
			projectName = filepath.Base(cwd)
		} else {
			projectName = "warehouse"
		}
	}

	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(getVerboseFlag(cmd)))
	if err := scaffolder.CreateProject(projectName, initTemplate, targetPath); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", tui.SuccessStyle.Render(fmt.Sprintf("✓ Project initialized using template '%s'", initTemplate)))
	if tree, err := scaffold.BuildFileTree(targetPath); err == nil {
		fmt.Fprint(os.Stderr, tree)
	}

	fmt.Fprintln(os.Stderr, "\nNext steps:")
	if targetPath != "." {
		fmt.Fprintf(os.Stderr, "  cd %s\n", targetPath)
	}
	fmt.Fprintln(os.Stderr, tui.HintStyle.Render("  # fill in [CLUSTER], [IAM_ROLE] and [S3] in dwh.cfg"))
	fmt.Fprintln(os.Stderr, "  dwhetl run --dry-run")
	fmt.Fprintln(os.Stderr, "  dwhetl run")

	return nil
}
