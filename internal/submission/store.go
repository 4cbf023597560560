// Package submission persists submitted descriptions, one numbered text file
// per submission, and allocates their identifiers.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"diseasemcp/internal/logging"
)

var (
	// ErrMissingField is returned when disease or description is empty.
	ErrMissingField = errors.New("both disease and description_bn are required")

	// ErrIDTaken is returned when the allocated file already exists.
	ErrIDTaken = errors.New("submission id already taken")
)

// Record describes a stored submission.
type Record struct {
	ID   ID
	Path string
	Size int
}

// Options configures a Store.
type Options struct {
	// Dir is the data directory (required). Created on first write.
	Dir string
	// Allocator defaults to a ScanAllocator over Dir.
	Allocator Allocator
	// PermFile/PermDir: zero means 0644/0755.
	PermFile os.FileMode
	PermDir  os.FileMode
}

// Store writes submissions into a data directory.
//
// Allocation and write happen under one mutex, so two calls in the same
// process never pick the same id. Files are written to a temp file and then
// hard-linked into place, which fails instead of overwriting if another
// writer got there first.
type Store struct {
	mu sync.Mutex

	dir   string
	alloc Allocator
	permF os.FileMode
	permD os.FileMode
}

// NewStore creates a submission store.
func NewStore(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("submission store: data directory required")
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = NewScanAllocator(opts.Dir)
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	return &Store{dir: opts.Dir, alloc: alloc, permF: pf, permD: pd}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Save validates the fields, allocates the next id and writes text verbatim
// to <dir>/<id>.txt. The disease name is only checked for presence; it is not
// stored.
func (s *Store) Save(ctx context.Context, disease, text string) (Record, error) {
	if disease == "" || text == "" {
		return Record{}, ErrMissingField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	id, err := s.alloc.Next(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("failed to allocate submission id: %w", err)
	}

	if err := os.MkdirAll(s.dir, s.permD); err != nil {
		return Record{}, fmt.Errorf("failed to create data directory: %w", err)
	}

	dest := filepath.Join(s.dir, id.FileName())
	if err := s.writeExclusive(ctx, dest, text); err != nil {
		logging.Audit(logging.AuditEvent{EventType: logging.AuditFileWrite, Target: dest, Error: err.Error()})
		return Record{}, err
	}

	logging.Get(logging.CategoryStore).Debug("wrote submission %s (%d bytes)", dest, len(text))
	logging.Audit(logging.AuditEvent{EventType: logging.AuditFileWrite, Target: dest, Success: true, Duration: time.Since(start)})

	return Record{ID: id, Path: dest, Size: len(text)}, nil
}

func (s *Store) writeExclusive(ctx context.Context, dest, text string) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_ = os.Chmod(tmpPath, s.permF)

	if _, err := io.Copy(tmp, readerWithCtx(ctx, strings.NewReader(text))); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write submission: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync submission: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close submission: %w", err)
	}

	if err := os.Link(tmpPath, dest); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrIDTaken, filepath.Base(dest))
		}
		return fmt.Errorf("failed to place submission: %w", err)
	}

	_ = syncDir(s.dir)
	return nil
}

// Count returns the number of numbered submission files in the directory.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list data directory: %w", err)
	}
	n := 0
	for _, e := range entries {
		if _, ok := parseFileName(e.Name()); ok {
			n++
		}
	}
	return n, nil
}

// PeekID reports the id the next Save would use, when the allocator can tell.
func (s *Store) PeekID(ctx context.Context) (ID, error) {
	p, ok := s.alloc.(Peeker)
	if !ok {
		return "", fmt.Errorf("allocator %T cannot peek", s.alloc)
	}
	return p.Peek(ctx)
}

// syncDir best-effort fsyncs the directory to persist the new entry.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// readerWithCtx checks ctx before every Read.
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
