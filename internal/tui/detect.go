package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for dwhetl.
type Mode int

const (
	// ModeNonInteractive is used for schedulers, CI/CD pipelines and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// DetectMode determines whether dwhetl may prompt the user.
//
// Returns ModeNonInteractive if:
//   - DWHETL_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - stdin is not a terminal (piped input, cron, CI/CD)
//
// Returns ModeInteractive otherwise. Stdout may be redirected; the prompt
// goes to stderr.
func DetectMode() Mode {
	if os.Getenv("DWHETL_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
