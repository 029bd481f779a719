package testing

import (
	"fmt"
	"strings"
	"sync"
)

// CaptureLogger records every message so tests can assert on what a run
// reported, including server NOTICEs forwarded at verbose level.
// Thread-safe for concurrent use.
type CaptureLogger struct {
	mu      sync.Mutex
	verbose []string
	info    []string
	errors  []string
}

// NewCaptureLogger creates an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) Verbose(format string, args ...interface{}) {
	c.record(&c.verbose, format, args)
}

func (c *CaptureLogger) Info(format string, args ...interface{}) {
	c.record(&c.info, format, args)
}

func (c *CaptureLogger) Error(format string, args ...interface{}) {
	c.record(&c.errors, format, args)
}

func (c *CaptureLogger) record(dst *[]string, format string, args []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

// Notices returns the NOTICE messages received from the server, in order.
func (c *CaptureLogger) Notices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []string
	for _, msg := range c.verbose {
		if rest, ok := strings.CutPrefix(msg, "NOTICE: "); ok {
			result = append(result, rest)
		}
	}
	return result
}

// InfoMessages returns a copy of the info-level messages.
func (c *CaptureLogger) InfoMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.info...)
}

// Errors returns a copy of the error-level messages.
func (c *CaptureLogger) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}
