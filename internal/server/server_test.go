package server

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diseasemcp/internal/config"
	"diseasemcp/internal/tools"
)

type fixture struct {
	rt           *Runtime
	dataDir      string
	instructions string
}

func newFixture(t *testing.T, catalogJSON string) *fixture {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "diseases.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogJSON), 0644))

	cfg := config.DefaultConfig()
	cfg.Catalog.Path = catalogPath
	cfg.Data.Dir = filepath.Join(dir, "data")
	cfg.Instructions.Path = filepath.Join(dir, "idea.md")

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	return &fixture{rt: rt, dataDir: cfg.Data.Dir, instructions: cfg.Instructions.Path}
}

func nextDisease(t *testing.T, f *fixture) string {
	t.Helper()
	res, err := Call(context.Background(), f.rt.Server, tools.NameGetNextDisease, nil)
	require.NoError(t, err)

	var out struct {
		Disease string `json:"disease"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Text()), &out))
	return out.Disease
}

func TestListTools(t *testing.T) {
	f := newFixture(t, `["Asthma"]`)

	names, err := ListTools(context.Background(), f.rt.Server)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		tools.NameGetNextDisease,
		tools.NameSubmitDescription,
		tools.NameGetInstructions,
	}, names)
}

func TestGetNextDisease_CycleAndWrap(t *testing.T) {
	f := newFixture(t, `["Asthma", "Dengue", "Cholera"]`)

	got := []string{nextDisease(t, f), nextDisease(t, f), nextDisease(t, f), nextDisease(t, f)}
	assert.Equal(t, []string{"Asthma", "Dengue", "Cholera", "Asthma"}, got)
}

func TestGetNextDisease_EmptyCatalogRejected(t *testing.T) {
	f := newFixture(t, `[]`)

	_, err := Call(context.Background(), f.rt.Server, tools.NameGetNextDisease, nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr), "expected RPCError, got %v", err)
	assert.Contains(t, rpcErr.Message, "catalog is empty")
}

func TestGetNextDisease_BrokenCatalogRejected(t *testing.T) {
	f := newFixture(t, `not json`)

	_, err := Call(context.Background(), f.rt.Server, tools.NameGetNextDisease, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog unavailable")
}

func TestSubmitDescription_WritesOneFile(t *testing.T) {
	f := newFixture(t, `["Dengue"]`)

	res, err := Call(context.Background(), f.rt.Server, tools.NameSubmitDescription, map[string]any{
		"disease":        "Dengue",
		"description_bn": "ডেঙ্গু একটি ভাইরাসজনিত রোগ।",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"message":"done"}`, res.Text())

	entries, err := os.ReadDir(f.dataDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "000001.txt", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(f.dataDir, "000001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ডেঙ্গু একটি ভাইরাসজনিত রোগ।", string(data))
}

func TestSubmitDescription_EmptyDescriptionRejected(t *testing.T) {
	f := newFixture(t, `["Dengue"]`)

	_, err := Call(context.Background(), f.rt.Server, tools.NameSubmitDescription, map[string]any{
		"disease":        "Dengue",
		"description_bn": "",
	})
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr), "expected RPCError, got %v", err)
	assert.Contains(t, rpcErr.Message, "both disease and description_bn are required")

	_, statErr := os.Stat(f.dataDir)
	assert.True(t, os.IsNotExist(statErr), "no data written on rejection")
}

func TestGetInstructions(t *testing.T) {
	f := newFixture(t, `["Dengue"]`)
	require.NoError(t, os.WriteFile(f.instructions, []byte("# Guidelines\n"), 0644))

	res, err := Call(context.Background(), f.rt.Server, tools.NameGetInstructions, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Guidelines\n", res.Text())
}

func TestGetInstructions_MissingFileRejected(t *testing.T) {
	f := newFixture(t, `["Dengue"]`)

	_, err := Call(context.Background(), f.rt.Server, tools.NameGetInstructions, nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr), "expected RPCError, got %v", err)
	assert.Contains(t, rpcErr.Message, "failed to read instructions")

	// The server keeps serving after a rejected call.
	assert.Equal(t, "Dengue", nextDisease(t, f))
}

func TestUnknownToolRejected(t *testing.T) {
	f := newFixture(t, `["Dengue"]`)

	_, err := Call(context.Background(), f.rt.Server, "foo", nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr), "expected RPCError, got %v", err)
	assert.Contains(t, rpcErr.Message, "foo")
}

func TestBuild_SequenceAllocator(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "diseases.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`["Dengue"]`), 0644))

	cfg := config.DefaultConfig()
	cfg.Catalog.Path = catalogPath
	cfg.Data.Dir = filepath.Join(dir, "data")
	cfg.Data.Allocator = config.AllocatorSequence

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	for i := 0; i < 2; i++ {
		_, err := Call(context.Background(), rt.Server, tools.NameSubmitDescription, map[string]any{
			"disease":        "Dengue",
			"description_bn": "text",
		})
		require.NoError(t, err)
	}

	assert.FileExists(t, filepath.Join(cfg.Data.Dir, "000001.txt"))
	assert.FileExists(t, filepath.Join(cfg.Data.Dir, "000002.txt"))
	assert.FileExists(t, cfg.SequenceDBPath())
}

func TestBuild_ToleratesMissingCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "absent.json")
	cfg.Data.Dir = t.TempDir()

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	assert.Zero(t, rt.Tracker.Stats().Catalog)
}
