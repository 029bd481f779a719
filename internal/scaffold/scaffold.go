// Package scaffold writes a starter dwhetl project: a dwh.cfg and a
// sql_queries.yaml manifest.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

//go:embed all:templates
var templatesFS embed.FS

// DefaultTemplate is the template used when none is named.
const DefaultTemplate = "sparkify"

// Scaffolder handles project initialization from templates
type Scaffolder struct {
	logger dwhetl.Logger
}

// NewScaffolder creates a new Scaffolder instance
func NewScaffolder(logger dwhetl.Logger) *Scaffolder {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scaffolder{logger: logger}
}

// CreateProject writes the named template into targetPath, which must be
// empty or absent. {{PROJECT_NAME}} in template files becomes projectName.
func (s *Scaffolder) CreateProject(projectName, templateName, targetPath string) error {
	templatePath := path.Join("templates", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return fmt.Errorf("template '%s' not found: %w", templateName, err)
	}

	isEmpty, err := isDirectoryEmpty(targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return fmt.Errorf("target directory '%s' is not empty\n\ndwhetl init will not overwrite an existing %s or %s.\nChoose a different location or a new directory name",
			targetPath, dwhetl.DefaultConfigFile, dwhetl.DefaultQueriesFile)
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	s.logger.Verbose("Creating project '%s' at %s with template '%s'", projectName, targetPath, templateName)

	if err := s.copyTemplateFiles(templatePath, targetPath, projectName); err != nil {
		return fmt.Errorf("failed to copy template files: %w", err)
	}
	return nil
}

func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath, projectName string) error {
	return fs.WalkDir(templatesFS, templatePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == templatePath {
			return nil
		}

		relPath := strings.TrimPrefix(p, templatePath+"/")
		targetFilePath := filepath.Join(targetPath, filepath.FromSlash(relPath))

		if d.IsDir() {
			return os.MkdirAll(targetFilePath, 0755)
		}

		content, err := templatesFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}
		content = []byte(strings.ReplaceAll(string(content), "{{PROJECT_NAME}}", projectName))

		// dwh.cfg may end up holding a password.
		perm := os.FileMode(0644)
		if relPath == dwhetl.DefaultConfigFile {
			perm = 0600
		}

		s.logger.Verbose("Creating file: %s", relPath)
		if err := os.WriteFile(targetFilePath, content, perm); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetFilePath, err)
		}
		return nil
	})
}

// ListTemplates returns available template names
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}
	return templates, nil
}

// isDirectoryEmpty reports whether path is an empty directory or does not
// exist. A path that is a regular file is an error.
func isDirectoryEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}
	return len(entries) == 0, nil
}

// BuildFileTree lists the top level of rootPath as a tree.
func BuildFileTree(rootPath string) (string, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to build file tree: %w", err)
	}

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = rootPath
	}

	var sb strings.Builder
	sb.WriteString(absPath + "/\n")
	for i, entry := range entries {
		branch := "├── "
		if i == len(entries)-1 {
			branch = "└── "
		}
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		sb.WriteString(branch + name + "\n")
	}
	return sb.String(), nil
}
