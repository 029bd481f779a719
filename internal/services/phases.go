package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/dwhetl/internal/render"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// LoadStagingTables executes each copy statement in order, committing after
// each one. The first failure stops the phase.
func (s *PipelineService) LoadStagingTables(ctx context.Context, session dwhetl.Session, statements []dwhetl.Statement) error {
	return s.execAndCommit(ctx, session, dwhetl.PhaseCopy, statements)
}

// InsertTables executes each insert statement in order, committing after
// each one. The first failure stops the phase.
func (s *PipelineService) InsertTables(ctx context.Context, session dwhetl.Session, statements []dwhetl.Statement) error {
	return s.execAndCommit(ctx, session, dwhetl.PhaseInsert, statements)
}

// RunAnalyticQueries executes each query in order, commits, and writes its
// result set to w as one table per query.
func (s *PipelineService) RunAnalyticQueries(ctx context.Context, session dwhetl.Session, statements []dwhetl.Statement, w io.Writer, format render.Format) error {
	for i, stmt := range statements {
		s.logger.Verbose("[%s %d/%d] %s", dwhetl.PhaseAnalytic, i+1, len(statements), stmt.Name)

		result, err := session.Query(ctx, stmt.SQL)
		if err != nil {
			return statementError(dwhetl.PhaseAnalytic, i, stmt, err)
		}
		if err := session.Commit(ctx); err != nil {
			return commitError(dwhetl.PhaseAnalytic, i, stmt, err)
		}

		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("phase %q: %v: %w", dwhetl.PhaseAnalytic, err, dwhetl.ErrRenderFailed)
			}
		}
		if err := render.Render(w, result, format); err != nil {
			return fmt.Errorf("phase %q: statement %d (%s): %w", dwhetl.PhaseAnalytic, i+1, stmt.Name, err)
		}
		s.logger.Verbose("[%s %d/%d] %d row(s)", dwhetl.PhaseAnalytic, i+1, len(statements), len(result.Rows))
	}
	return nil
}

func (s *PipelineService) execAndCommit(ctx context.Context, session dwhetl.Session, phase dwhetl.Phase, statements []dwhetl.Statement) error {
	for i, stmt := range statements {
		s.logger.Verbose("[%s %d/%d] %s", phase, i+1, len(statements), stmt.Name)

		if err := session.Exec(ctx, stmt.SQL); err != nil {
			return statementError(phase, i, stmt, err)
		}
		if err := session.Commit(ctx); err != nil {
			return commitError(phase, i, stmt, err)
		}
	}
	return nil
}

func statementError(phase dwhetl.Phase, index int, stmt dwhetl.Statement, err error) error {
	return fmt.Errorf("phase %q: statement %d (%s) failed\n\nStatement: %s\n\n%w: %w",
		phase, index+1, stmt.Name, preview(stmt.SQL), dwhetl.ErrExecutionFailed, err)
}

func commitError(phase dwhetl.Phase, index int, stmt dwhetl.Statement, err error) error {
	return fmt.Errorf("phase %q: commit after statement %d (%s) failed: %w: %w",
		phase, index+1, stmt.Name, dwhetl.ErrExecutionFailed, err)
}

// preview collapses whitespace and truncates sql to MaxErrorPreviewLength.
func preview(sql string) string {
	collapsed := []rune(strings.Join(strings.Fields(sql), " "))
	if len(collapsed) <= dwhetl.MaxErrorPreviewLength {
		return string(collapsed)
	}
	return string(collapsed[:dwhetl.MaxErrorPreviewLength]) + "..."
}
