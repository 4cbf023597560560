package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diseases.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_PreservesOrder(t *testing.T) {
	path := writeCatalog(t, `["Asthma", "Dengue", "Cholera", "Anemia"]`)

	c, err := Load(path)
	require.NoError(t, err)

	want := []string{"Asthma", "Dengue", "Cholera", "Anemia"}
	if diff := cmp.Diff(want, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "Cholera", c.At(2))
}

func TestLoad_EmptyArrayIsNotAnError(t *testing.T) {
	path := writeCatalog(t, `[]`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.json") }},
		{"malformed json", func(t *testing.T) string { return writeCatalog(t, `["Asthma",`) }},
		{"object instead of array", func(t *testing.T) string { return writeCatalog(t, `{"a": 1}`) }},
		{"non-string element", func(t *testing.T) string { return writeCatalog(t, `["Asthma", 42]`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(tt.path(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnavailable), "expected ErrUnavailable, got %v", err)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestFileLoader_DegradesToEmpty(t *testing.T) {
	l := NewFileLoader(filepath.Join(t.TempDir(), "absent.json"))

	c, err := l.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, c.Len())
}

func TestFileLoader_CancelledContext(t *testing.T) {
	l := NewFileLoader(writeCatalog(t, `["Asthma"]`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_CopiesInput(t *testing.T) {
	names := []string{"Asthma", "Dengue"}
	c := New(names)
	names[0] = "Mutated"

	assert.Equal(t, "Asthma", c.At(0))

	out := c.Names()
	out[1] = "Mutated"
	assert.Equal(t, "Dengue", c.At(1))
}
