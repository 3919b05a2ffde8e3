// Package logging builds the structured logger shared by the server, the
// TUI and the store.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New returns a slog.Logger that writes human-readable records to w.
// level is one of debug, info, warn, error; empty means DefaultLevel.
func New(w io.Writer, level, prefix string) (*slog.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	parsed, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           parsed,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
