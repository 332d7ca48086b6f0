package logging

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if command := CommandFromContext(ctx); command != "" {
		fields = append(fields, zap.String("command", command))
	}

	if dir := ProjectDirFromContext(ctx); dir != "" {
		fields = append(fields, zap.String("project_dir", dir))
	}

	return fields
}

type commandCtxKey struct{}
type projectDirCtxKey struct{}

const maxCommandLen = 64

var commandPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateCommand validates a command name.
func validateCommand(name string) error {
	if name == "" {
		return fmt.Errorf("command cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("command contains invalid UTF-8")
	}
	if len(name) > maxCommandLen {
		return fmt.Errorf("command exceeds max length %d", maxCommandLen)
	}
	if !commandPattern.MatchString(name) {
		return fmt.Errorf("command contains invalid characters (must be alphanumeric, hyphen, underscore)")
	}
	return nil
}

// CommandFromContext extracts the command name from context.
func CommandFromContext(ctx context.Context) string {
	if c, ok := ctx.Value(commandCtxKey{}).(string); ok {
		return c
	}
	return ""
}

// WithCommand tags every entry logged with ctx with the running command,
// e.g. "id" or "status".
// Panics if name is empty or contains invalid characters.
func WithCommand(ctx context.Context, name string) context.Context {
	if err := validateCommand(name); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, commandCtxKey{}, name)
}

// ProjectDirFromContext extracts the project directory from context.
func ProjectDirFromContext(ctx context.Context) string {
	if d, ok := ctx.Value(projectDirCtxKey{}).(string); ok {
		return d
	}
	return ""
}

// WithProjectDir adds the resolved project directory to context.
func WithProjectDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, projectDirCtxKey{}, dir)
}

type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}
