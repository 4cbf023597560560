// Package instructions serves the writing guidelines document returned by
// get_instructions. The file lives outside the repository; its path is
// configuration.
package instructions

import (
	"context"
	"errors"
	"fmt"
	"os"

	"diseasemcp/internal/logging"
)

// ErrNotConfigured is returned when no instructions path was provided.
var ErrNotConfigured = errors.New("instructions path not configured")

// Source reads the instructions file on every call, so edits are picked up
// without a restart.
type Source struct {
	Path string
}

// NewSource creates a Source for path.
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// Read returns the full file contents.
func (s *Source) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Path == "" {
		return "", fmt.Errorf("failed to read instructions: %w", ErrNotConfigured)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		logging.Audit(logging.AuditEvent{EventType: logging.AuditFileRead, Target: s.Path, Error: err.Error()})
		return "", fmt.Errorf("failed to read instructions: %w", err)
	}

	logging.Get(logging.CategoryTools).Debug("read %d bytes of instructions from %s", len(data), s.Path)
	return string(data), nil
}
