// Package catalog loads the ordered list of disease names served by
// get_next_disease. The source is a JSON array of strings.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"diseasemcp/internal/logging"
)

// ErrUnavailable marks a catalog that could not be read or parsed, as opposed
// to one that is legitimately empty.
var ErrUnavailable = errors.New("catalog unavailable")

// Catalog is an ordered, immutable sequence of disease names.
type Catalog struct {
	names []string
}

// New builds a catalog from names. The slice is copied.
func New(names []string) Catalog {
	cp := make([]string, len(names))
	copy(cp, names)
	return Catalog{names: cp}
}

// Len returns the number of entries.
func (c Catalog) Len() int { return len(c.names) }

// At returns the i-th entry in catalog order.
func (c Catalog) At(i int) string { return c.names[i] }

// Names returns a copy of the entries in catalog order.
func (c Catalog) Names() []string {
	cp := make([]string, len(c.names))
	copy(cp, c.names)
	return cp
}

// Loader produces a catalog on demand.
type Loader interface {
	Load(ctx context.Context) (Catalog, error)
}

// FileLoader reads the catalog from a JSON file.
type FileLoader struct {
	Path string
}

// NewFileLoader creates a loader for path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads and parses the catalog file. On any failure it returns an empty
// catalog together with an error wrapping ErrUnavailable; the failure is
// logged here so callers may choose to degrade silently.
func (l *FileLoader) Load(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}

	c, err := Load(l.Path)
	if err != nil {
		logging.Get(logging.CategoryCatalog).Error("Error loading diseases: %v", err)
		logging.Audit(logging.AuditEvent{EventType: logging.AuditCatalogLoad, Target: l.Path, Error: err.Error()})
		return Catalog{}, err
	}

	logging.Get(logging.CategoryCatalog).Info("loaded %d diseases from %s", c.Len(), l.Path)
	return c, nil
}

// Load reads the JSON array at path.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of strings. A JSON null decodes to an empty catalog.
func Parse(data []byte) (Catalog, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return Catalog{}, fmt.Errorf("%w: failed to parse catalog: %v", ErrUnavailable, err)
	}
	return Catalog{names: names}, nil
}
