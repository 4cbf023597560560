package submission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Ext is the extension of every submission file.
const Ext = ".txt"

// FirstID is allocated when no submissions exist yet.
const FirstID ID = "000001"

// ID is a zero-padded, six-digit decimal submission identifier.
type ID string

// FormatID renders n as an ID. Values above 999999 simply grow wider.
func FormatID(n int64) ID {
	return ID(fmt.Sprintf("%06d", n))
}

// FileName returns the on-disk name for id.
func (id ID) FileName() string { return string(id) + Ext }

// Allocator hands out the next submission identifier.
type Allocator interface {
	Next(ctx context.Context) (ID, error)
}

// ScanAllocator derives the next id from the files already in Dir: the
// largest numeric stem plus one. It holds no state of its own, so it is only
// as safe as the caller's serialization of allocate-then-write.
type ScanAllocator struct {
	Dir string
}

// NewScanAllocator creates a directory-scanning allocator.
func NewScanAllocator(dir string) *ScanAllocator {
	return &ScanAllocator{Dir: dir}
}

// Next returns max+1 over the numbered files in Dir, or FirstID when there
// are none. A missing directory counts as empty; other listing errors are
// returned rather than masked.
func (a *ScanAllocator) Next(ctx context.Context) (ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	max, found, err := MaxID(a.Dir)
	if err != nil {
		return "", err
	}
	if !found {
		return FirstID, nil
	}
	return FormatID(max + 1), nil
}

// MaxID scans dir for <digits>.txt files and returns the largest number.
// found is false when no file matches (including when dir does not exist).
func MaxID(dir string) (max int64, found bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to list data directory: %w", err)
	}

	for _, e := range entries {
		n, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	return max, found, nil
}

// parseFileName accepts only "<ascii digits>.txt".
func parseFileName(name string) (int64, bool) {
	stem, ok := strings.CutSuffix(name, Ext)
	if !ok || stem == "" {
		return 0, false
	}
	for _, r := range stem {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(stem, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Peeker is implemented by allocators that can report the next id without
// consuming it.
type Peeker interface {
	Peek(ctx context.Context) (ID, error)
}

// Peek is Next: scanning has no side effects.
func (a *ScanAllocator) Peek(ctx context.Context) (ID, error) {
	return a.Next(ctx)
}
