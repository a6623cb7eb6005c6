package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nrad-K/go-standings/internal/config"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSnapshotsUseCase_Run(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pl"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pl", "ekstraklasa.html"), []byte(standingsFixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.html"), []byte(`<html><body></body></html>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	store := &memoryResultStore{}
	uc := NewExtractSnapshotsUseCase(SnapshotArgs{
		Loader: infra.NewHTMLFileLoader(),
		NewExtract: func(page infra.Page) TableExtraction {
			return newTestExtractor(t, page, config.ExtractPositional)
		},
		Store:  store,
		Logger: discardLogger(),
	})

	results, err := uc.Run(context.Background(), dir, "out.json")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "empty", results[0].LeagueName)
	assert.Empty(t, results[0].Table)
	assert.Equal(t, "ekstraklasa", results[1].LeagueName)
	assert.Len(t, results[1].Table, 3)
	assert.Equal(t, results, store.saved["out.json"])
}

func TestExtractSnapshotsUseCase_MissingPath(t *testing.T) {
	uc := NewExtractSnapshotsUseCase(SnapshotArgs{
		Loader: infra.NewHTMLFileLoader(),
		NewExtract: func(page infra.Page) TableExtraction {
			return newTestExtractor(t, page, config.ExtractPositional)
		},
		Store:  &memoryResultStore{},
		Logger: discardLogger(),
	})

	_, err := uc.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), "out.json")
	assert.Error(t, err)
}
