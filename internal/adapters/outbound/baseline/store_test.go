package baseline_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/baseline"
	"github.com/contractor-dev/contractor/internal/domain"
)

func sampleBaseline(root string) *domain.Baseline {
	return &domain.Baseline{
		RootPath: root,
		SavedAt:  time.Now().Format(time.RFC3339),
		Contracts: []domain.Contract{
			{
				Name:       "Order",
				Kind:       domain.KindInterface,
				Version:    "2.0.0",
				SourceFile: "api/order.ts",
				Properties: []domain.PropertyModel{{Name: "id", Type: "string"}},
			},
		},
	}
}

func TestBaseline_LoadMissingIsNotAnError(t *testing.T) {
	b, err := baseline.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestBaseline_SaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := baseline.New()

	require.NoError(t, store.Save(sampleBaseline(root)))

	loaded, err := store.Load(root)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, root, loaded.RootPath)
	require.Len(t, loaded.Contracts, 1)
	assert.Equal(t, "Order", loaded.Contracts[0].Name)
	assert.Equal(t, "string", loaded.Contracts[0].Properties[0].Type)
}

func TestBaseline_SaveCreatesDotDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, baseline.New().Save(sampleBaseline(root)))

	_, err := os.Stat(filepath.Join(root, ".contractor", "cache", "baseline.json"))
	assert.NoError(t, err)
}

func TestBaseline_Invalidate(t *testing.T) {
	root := t.TempDir()
	store := baseline.New()
	require.NoError(t, store.Save(sampleBaseline(root)))

	require.NoError(t, store.Invalidate(root))

	b, err := store.Load(root)
	require.NoError(t, err)
	assert.Nil(t, b)

	// Invalidating twice is harmless.
	assert.NoError(t, store.Invalidate(root))
}

func TestBaseline_LoadCorruptFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".contractor", "cache")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baseline.json"), []byte("not json"), 0644))

	_, err := baseline.New().Load(root)
	assert.Error(t, err)
}
