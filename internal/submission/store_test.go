package submission

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Options{Dir: t.TempDir()})
	require.NoError(t, err)
	return s
}

const bengali = "ডেঙ্গু একটি মশাবাহিত ভাইরাসজনিত রোগ।\nএটি এডিস মশার মাধ্যমে ছড়ায়।"

func TestStore_SaveWritesVerbatim(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Save(context.Background(), "Dengue", bengali)
	require.NoError(t, err)

	assert.Equal(t, ID("000001"), rec.ID)
	assert.Equal(t, filepath.Join(s.Dir(), "000001.txt"), rec.Path)

	data, err := os.ReadFile(rec.Path)
	require.NoError(t, err)
	assert.Equal(t, bengali, string(data))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "exactly one file, no leftover temp files")
}

func TestStore_SaveRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name, disease, text string
	}{
		{"empty description", "Dengue", ""},
		{"empty disease", "", bengali},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			_, err := s.Save(context.Background(), tt.disease, tt.text)
			assert.ErrorIs(t, err, ErrMissingField)

			n, err := s.Count()
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestStore_SaveContinuesNumbering(t *testing.T) {
	s := newTestStore(t)
	touch(t, s.Dir(), "000001.txt", "000002.txt", "000003.txt", "000004.txt", "000005.txt")

	rec, err := s.Save(context.Background(), "Asthma", "text")
	require.NoError(t, err)
	assert.Equal(t, ID("000006"), rec.ID)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestStore_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := NewStore(Options{Dir: dir})
	require.NoError(t, err)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	rec, err := s.Save(context.Background(), "Malaria", "text")
	require.NoError(t, err)
	assert.FileExists(t, rec.Path)
}

// fixedAllocator always returns the same id.
type fixedAllocator ID

func (f fixedAllocator) Next(context.Context) (ID, error) { return ID(f), nil }

func TestStore_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001.txt"), []byte("original"), 0644))

	s, err := NewStore(Options{Dir: dir, Allocator: fixedAllocator("000001")})
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "Dengue", "replacement")
	assert.ErrorIs(t, err, ErrIDTaken)

	data, err := os.ReadFile(filepath.Join(dir, "000001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestStore_ConcurrentSavesGetDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Save(ctx, "Cholera", "text"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, n, count)

	next, err := s.PeekID(ctx)
	require.NoError(t, err)
	assert.Equal(t, FormatID(n+1), next)
}

func TestStore_WithSequenceAllocator(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "000009.txt")
	seq := newTestSequence(t, dir)

	s, err := NewStore(Options{Dir: dir, Allocator: seq})
	require.NoError(t, err)

	rec, err := s.Save(context.Background(), "Typhoid", "text")
	require.NoError(t, err)
	assert.Equal(t, ID("000010"), rec.ID)

	next, err := s.PeekID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ID("000011"), next)
}

func TestStore_PeekUnsupported(t *testing.T) {
	s, err := NewStore(Options{Dir: t.TempDir(), Allocator: fixedAllocator("000001")})
	require.NoError(t, err)

	_, err = s.PeekID(context.Background())
	assert.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "Dengue", "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStore_RequiresDir(t *testing.T) {
	_, err := NewStore(Options{Dir: "  "})
	assert.Error(t, err)
}
