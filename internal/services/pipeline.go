package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/dwhetl/internal/render"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// ConnectorFactory builds the connector for one run. appName identifies the
// run to the server.
type ConnectorFactory func(appName string) (dwhetl.Connector, error)

// PipelineService runs the load, insert and analyze phases over one session.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type PipelineService struct {
	connectorFactory ConnectorFactory
	logger           dwhetl.Logger
	out              io.Writer
}

// NewPipelineService creates a PipelineService. Result tables and the
// dry-run plan are written to out.
//
// Panics on nil dependencies: these are wiring mistakes, not runtime
// conditions.
func NewPipelineService(connectorFactory ConnectorFactory, logger dwhetl.Logger, out io.Writer) *PipelineService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if out == nil {
		panic("out cannot be nil")
	}

	return &PipelineService{
		connectorFactory: connectorFactory,
		logger:           logger,
		out:              out,
	}
}

// Run executes the plan: copy statements, then insert statements, then
// analytic queries, stopping at the first failure. The session is closed on
// every path once it has been opened.
func (s *PipelineService) Run(ctx context.Context, config dwhetl.RunConfig) (err error) {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := render.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	plan := config.Plan
	if config.DryRun {
		return s.printPlan(plan)
	}

	runID := uuid.New().String()
	appName := fmt.Sprintf("%s-%s", dwhetl.DefaultAppName, runID[:8])
	s.logger.Verbose("Run %s: %d copy, %d insert, %d analytic statement(s)",
		runID, len(plan.Copy), len(plan.Insert), len(plan.Analytic))

	connector, err := s.connectorFactory(appName)
	if err != nil {
		return fmt.Errorf("failed to create connector: %w", err)
	}

	session, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("failed to close connection: %w", closeErr)
				return
			}
			s.logger.Error("failed to close connection: %v", closeErr)
		}
	}()
	s.logger.Verbose("Connected as %s", appName)

	phases := []struct {
		phase dwhetl.Phase
		run   func() error
	}{
		{dwhetl.PhaseCopy, func() error { return s.LoadStagingTables(ctx, session, plan.Copy) }},
		{dwhetl.PhaseInsert, func() error { return s.InsertTables(ctx, session, plan.Insert) }},
		{dwhetl.PhaseAnalytic, func() error { return s.RunAnalyticQueries(ctx, session, plan.Analytic, s.out, format) }},
	}

	for _, p := range phases {
		start := time.Now()
		if err := p.run(); err != nil {
			return err
		}
		s.logger.Info("✓ %s: %d statement(s) in %s",
			p.phase, len(plan.Statements(p.phase)), time.Since(start).Round(time.Millisecond))
	}

	return nil
}

// printPlan writes the ordered statements as a table without connecting.
func (s *PipelineService) printPlan(plan *dwhetl.Plan) error {
	table := &dwhetl.ResultTable{Columns: []string{"phase", "#", "name", "statement"}}
	for _, phase := range dwhetl.Phases {
		for i, stmt := range plan.Statements(phase) {
			table.Rows = append(table.Rows, []any{string(phase), i + 1, stmt.Name, preview(stmt.SQL)})
		}
	}
	return render.Render(s.out, table, render.FormatTable)
}
