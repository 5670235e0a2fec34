package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tuitionJSONC = `{
  // per-credit fees in BDT
  "CSE": {"per_credit": 5500, "semester_fee": "12,000"},
  "BBA": {"per_credit": 4200},
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadBothSources(t *testing.T) {
	src := Sources{
		DocumentPath: writeFile(t, "diu_admission.txt", "Admission opens in January."),
		TuitionPath:  writeFile(t, "tuition_info_diu.json", tuitionJSONC),
	}
	store, err := Load(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "Admission opens in January.", store.Document())
	require.Contains(t, store.Tuition(), "CSE")
	cse := store.Tuition()["CSE"].(map[string]any)
	assert.InDelta(t, 5500, cse["per_credit"], 0)

	want := "{\n  \"CSE\": {\n    \"per_credit\": 5500,\n    \"semester_fee\": \"12,000\"\n  },\n  \"BBA\": {\n    \"per_credit\": 4200\n  }\n}"
	assert.Equal(t, want, store.TuitionText())
}

func TestLoadDegradesPerSource(t *testing.T) {
	src := Sources{
		DocumentPath: filepath.Join(t.TempDir(), "missing.pdf"),
		TuitionPath:  writeFile(t, "tuition.json", tuitionJSONC),
	}
	store, err := Load(context.Background(), src)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, SourceDocument, loadErr.Source)

	assert.Empty(t, store.Document())
	assert.Len(t, store.Tuition(), 2)
}

func TestLoadBothFail(t *testing.T) {
	src := Sources{
		DocumentPath: writeFile(t, "broken.pdf", "not really a pdf"),
		TuitionPath:  writeFile(t, "tuition.json", "{ this is not json"),
	}
	store, err := Load(context.Background(), src)
	require.Error(t, err)
	require.NotNil(t, store)

	assert.Empty(t, store.Document())
	assert.NotNil(t, store.Tuition())
	assert.Empty(t, store.Tuition())
	assert.Equal(t, "{}", store.TuitionText())
}

func TestLoadEmptyPaths(t *testing.T) {
	store, err := Load(context.Background(), Sources{})
	require.Error(t, err)
	assert.Empty(t, store.Document())
	assert.Empty(t, store.Tuition())
}

func TestSeedersNames(t *testing.T) {
	seeders := Seeders(NewStore(), Sources{})
	require.Len(t, seeders, 2)
	assert.Equal(t, SourceDocument, seeders[0].Name)
	assert.Equal(t, SourceTuition, seeders[1].Name)
}
