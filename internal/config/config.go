// Package config reads the dwh.cfg file: an INI document whose CLUSTER
// section supplies connection values and whose other sections feed
// statement templates.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// ClusterConfig holds the five positional CLUSTER values.
type ClusterConfig struct {
	Host     string
	DBName   string
	User     string
	Password string
	Port     string
}

// Validate checks the values needed to build a connection string.
// Password is not checked: it may be prompted for or empty.
func (c ClusterConfig) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("host (value 1) is empty: %w", dwhetl.ErrInvalidConfig))
	}
	if c.DBName == "" {
		errs = append(errs, fmt.Errorf("dbname (value 2) is empty: %w", dwhetl.ErrInvalidConfig))
	}
	if c.User == "" {
		errs = append(errs, fmt.Errorf("user (value 3) is empty: %w", dwhetl.ErrInvalidConfig))
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("port (value 5) %q is not a valid port: %w", c.Port, dwhetl.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Sections maps section name to its key/value pairs.
type Sections map[string]map[string]string

// Config is the parsed dwh.cfg.
type Config struct {
	Path     string
	Cluster  ClusterConfig
	Sections Sections
}

// Load reads and parses the config file at path.
//
// CLUSTER values are taken by position, in file order: host, dbname, user,
// password, port. Key names are not interpreted. Values beyond the fifth
// are ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, dwhetl.ErrConfigNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Parse(path, data)
}

// Parse parses config file content. path is only used in messages.
func Parse(path string, data []byte) (*Config, error) {
	// Values are taken verbatim: '#' and ';' only start whole-line comments,
	// so passwords may contain them.
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v: %w", path, err, dwhetl.ErrInvalidConfig)
	}

	sections := make(Sections)
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		values := make(map[string]string, len(section.Keys()))
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
		sections[section.Name()] = values
	}

	cluster, err := file.GetSection(dwhetl.ClusterSection)
	if err != nil {
		return nil, fmt.Errorf("%s: missing [%s] section: %w", path, dwhetl.ClusterSection, dwhetl.ErrInvalidConfig)
	}

	keys := cluster.Keys()
	if len(keys) < dwhetl.ClusterValueCount {
		return nil, fmt.Errorf("%s: [%s] has %d value(s), need %d (host, dbname, user, password, port): %w",
			path, dwhetl.ClusterSection, len(keys), dwhetl.ClusterValueCount, dwhetl.ErrInvalidConfig)
	}

	return &Config{
		Path: path,
		Cluster: ClusterConfig{
			Host:     keys[0].Value(),
			DBName:   keys[1].Value(),
			User:     keys[2].Value(),
			Password: keys[3].Value(),
			Port:     keys[4].Value(),
		},
		Sections: sections,
	}, nil
}
