// Package tracker hands out catalog entries one at a time, remembering which
// were already served since the last wraparound.
package tracker

import (
	"context"
	"errors"
	"sync"

	"diseasemcp/internal/catalog"
	"diseasemcp/internal/logging"
)

// ErrEmptyCatalog is returned by Next when no entries exist even after a reload.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Tracker owns the catalog and the served set. The zero value is not usable;
// construct with New.
type Tracker struct {
	mu sync.Mutex

	loader  catalog.Loader
	catalog catalog.Catalog
	served  map[string]struct{}
}

// Stats is a point-in-time view of tracker state.
type Stats struct {
	Catalog int
	Served  int
}

// New creates a tracker that (re)loads its catalog through loader whenever the
// catalog it holds is empty.
func New(loader catalog.Loader) *Tracker {
	return &Tracker{
		loader: loader,
		served: make(map[string]struct{}),
	}
}

// Load replaces the catalog with a fresh read from the loader and clears the
// served set. A failed load leaves an empty catalog and returns the error.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(ctx)
}

func (t *Tracker) loadLocked(ctx context.Context) error {
	c, err := t.loader.Load(ctx)
	t.catalog = c
	clear(t.served)
	return err
}

// Next returns the first catalog entry not yet served and marks it served.
// Once every entry has been served the history is cleared and entry 0 is
// returned again.
func (t *Tracker) Next(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.catalog.Len() == 0 {
		if err := t.loadLocked(ctx); err != nil {
			return "", errors.Join(ErrEmptyCatalog, err)
		}
		if t.catalog.Len() == 0 {
			return "", ErrEmptyCatalog
		}
	}

	for i := 0; i < t.catalog.Len(); i++ {
		name := t.catalog.At(i)
		if _, ok := t.served[name]; !ok {
			t.served[name] = struct{}{}
			return name, nil
		}
	}

	logging.Get(logging.CategoryTracker).Info("all %d diseases served, starting over", t.catalog.Len())
	clear(t.served)
	name := t.catalog.At(0)
	t.served[name] = struct{}{}
	return name, nil
}

// Stats reports catalog and served-set sizes.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{Catalog: t.catalog.Len(), Served: len(t.served)}
}
