package queries

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dwhetl/internal/config"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

type manifest struct {
	Copy     []entry `yaml:"copy"`
	Insert   []entry `yaml:"insert"`
	Analytic []entry `yaml:"analytic"`
}

type entry struct {
	Name string `yaml:"name"`
	SQL  string `yaml:"sql"`
	File string `yaml:"file"`
}

// UnmarshalYAML accepts a bare string as shorthand for {sql: <string>}.
func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.SQL = node.Value
		return nil
	}

	type plain entry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = entry(p)
	return nil
}

// Load reads the manifest at path and builds the ordered plan.
func Load(path string, sections config.Sections) (*dwhetl.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, dwhetl.ErrQueriesNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Parse(data, filepath.Dir(path), sections)
}

// Parse builds the ordered plan from manifest content. baseDir resolves
// file entries.
func Parse(data []byte, baseDir string, sections config.Sections) (*dwhetl.Plan, error) {
	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse statement manifest: %v: %w", err, dwhetl.ErrInvalidConfig)
	}

	r := &resolver{baseDir: baseDir, sections: sections}

	var errs []error
	plan := &dwhetl.Plan{}
	plan.Copy, errs = r.resolveAll(dwhetl.PhaseCopy, m.Copy, errs)
	plan.Insert, errs = r.resolveAll(dwhetl.PhaseInsert, m.Insert, errs)
	plan.Analytic, errs = r.resolveAll(dwhetl.PhaseAnalytic, m.Analytic, errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return plan, nil
}

type resolver struct {
	baseDir  string
	sections config.Sections
}

func (r *resolver) resolveAll(phase dwhetl.Phase, entries []entry, errs []error) ([]dwhetl.Statement, []error) {
	statements := make([]dwhetl.Statement, 0, len(entries))
	for i, e := range entries {
		stmt, err := r.resolve(phase, i, e)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", phase, i, err))
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, errs
}

func (r *resolver) resolve(phase dwhetl.Phase, index int, e entry) (dwhetl.Statement, error) {
	if e.SQL != "" && e.File != "" {
		return dwhetl.Statement{}, fmt.Errorf("sql and file are mutually exclusive: %w", dwhetl.ErrInvalidConfig)
	}

	text := e.SQL
	name := e.Name
	if e.File != "" {
		path := e.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return dwhetl.Statement{}, fmt.Errorf("failed to read %s: %v: %w", path, err, dwhetl.ErrInvalidConfig)
		}
		text = string(content)
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(e.File), filepath.Ext(e.File))
		}
	}

	if strings.TrimSpace(text) == "" {
		return dwhetl.Statement{}, fmt.Errorf("statement is empty: %w", dwhetl.ErrInvalidConfig)
	}
	if name == "" {
		name = fmt.Sprintf("%s_%d", phase, index+1)
	}

	expanded, err := Expand(name, text, r.sections)
	if err != nil {
		return dwhetl.Statement{}, err
	}

	return dwhetl.Statement{Name: name, SQL: strings.TrimSpace(expanded)}, nil
}

// Expand renders {{ .SECTION.KEY }} references in text from sections.
// Text without template actions is returned unchanged.
func Expand(name, text string, sections config.Sections) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid template in %s: %v: %w", name, err, dwhetl.ErrInvalidConfig)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, sections); err != nil {
		return "", fmt.Errorf("failed to expand %s: %v: %w", name, err, dwhetl.ErrInvalidConfig)
	}
	return buf.String(), nil
}
