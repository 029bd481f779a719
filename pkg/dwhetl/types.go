package dwhetl

import (
	"errors"
	"fmt"
)

// Phase identifies one of the three ordered statement batches.
type Phase string

const (
	PhaseCopy     Phase = "copy"
	PhaseInsert   Phase = "insert"
	PhaseAnalytic Phase = "analytic"
)

// Phases lists the pipeline phases in execution order.
var Phases = []Phase{PhaseCopy, PhaseInsert, PhaseAnalytic}

// Statement is one opaque SQL text with a display name.
type Statement struct {
	Name string
	SQL  string
}

// Plan holds the three ordered statement lists.
type Plan struct {
	Copy     []Statement
	Insert   []Statement
	Analytic []Statement
}

// Statements returns the statement list for a phase.
func (p *Plan) Statements(phase Phase) []Statement {
	switch phase {
	case PhaseCopy:
		return p.Copy
	case PhaseInsert:
		return p.Insert
	case PhaseAnalytic:
		return p.Analytic
	default:
		return nil
	}
}

// Len returns the total number of statements across all phases.
func (p *Plan) Len() int {
	return len(p.Copy) + len(p.Insert) + len(p.Analytic)
}

// ResultTable is a fully materialized result set: named columns and rows in
// server order. A nil cell is SQL NULL.
type ResultTable struct {
	Columns []string
	Rows    [][]any
}

// RunConfig contains all parameters needed for one pipeline run.
type RunConfig struct {
	// Plan is the ordered statement lists to execute.
	Plan *Plan

	// Format selects the analytic result rendering (table, markdown, csv, html).
	Format string

	// DryRun prints the plan without connecting.
	DryRun bool

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the RunConfig has all required fields.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.Plan == nil {
		errs = append(errs, fmt.Errorf("Plan is required: %w", ErrInvalidConfig))
	}

	if c.Format == "" {
		errs = append(errs, fmt.Errorf("Format is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
