package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// hashEmbedder is a deterministic stand-in for the Ollama backend: texts
// sharing words score closer than unrelated texts.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 64)
		for _, r := range text {
			vec[int(r)%64]++
		}
		out[i] = vec
	}
	return out, nil
}

func setupIndex(t *testing.T) *Index {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "knowledge-test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	db, err := gorm.Open(sqlite.Open(tmpFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ix, err := NewIndex(db, hashEmbedder{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(tmpFile.Name())
	})

	return ix
}

func TestIngestAndRetrieve(t *testing.T) {
	ix := setupIndex(t)
	ctx := context.Background()

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "services.md"),
		[]byte("We offer cloud migration and cybersecurity consulting."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "hours.txt"),
		[]byte("Business hours are Monday to Friday, eight to six."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ignored.pdf"),
		[]byte("binary"), 0644))

	docs, chunks, err := ix.Ingest(ctx, dataDir)
	require.NoError(t, err)
	assert.Equal(t, 2, docs)
	assert.Equal(t, 2, chunks)

	passages, err := ix.Retrieve(ctx, "cloud migration consulting", 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "services.md", passages[0].Source)
}

func TestIngestClearsPreviousChunks(t *testing.T) {
	ix := setupIndex(t)
	ctx := context.Background()

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a.md"), []byte("alpha document"), 0644))

	_, _, err := ix.Ingest(ctx, dataDir)
	require.NoError(t, err)
	_, _, err = ix.Ingest(ctx, dataDir)
	require.NoError(t, err)

	n, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestIngestEmptyDirFails(t *testing.T) {
	ix := setupIndex(t)

	_, _, err := ix.Ingest(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	ix := setupIndex(t)

	passages, err := ix.Retrieve(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestRetrieveCapsAtK(t *testing.T) {
	ix := setupIndex(t)
	ctx := context.Background()

	dataDir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md", "d.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte("document "+name), 0644))
	}
	_, _, err := ix.Ingest(ctx, dataDir)
	require.NoError(t, err)

	passages, err := ix.Retrieve(ctx, "document", 3)
	require.NoError(t, err)
	assert.Len(t, passages, 3)
}
