package db

import (
	"strings"

	"github.com/vvka-141/dwhetl/internal/config"
)

// BuildConnectionString assembles a keyword/value connection string from the
// positional CLUSTER values, in the fixed order host, dbname, user, password,
// port.
//
// Values that are empty or contain whitespace, quotes or backslashes are
// single-quoted with \' and \\ escapes, per libpq keyword/value rules.
func BuildConnectionString(c config.ClusterConfig) string {
	pairs := []struct{ key, value string }{
		{"host", c.Host},
		{"dbname", c.DBName},
		{"user", c.User},
		{"password", c.Password},
		{"port", c.Port},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+quoteValue(p.value))
	}
	return strings.Join(parts, " ")
}

func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
	return "'" + escaped + "'"
}

// RedactConnectionString returns the connection string with the password masked,
// for verbose logging.
func RedactConnectionString(c config.ClusterConfig) string {
	if c.Password != "" {
		c.Password = "********"
	}
	return BuildConnectionString(c)
}
