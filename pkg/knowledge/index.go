package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Chunk is one embedded document excerpt persisted alongside the
// appointment tables.
type Chunk struct {
	ID         uint   `gorm:"primaryKey"`
	Source     string `gorm:"index"`
	ChunkIndex int
	Text       string
	// Embedding is the vector serialized as a JSON array.
	Embedding []byte
}

// Index is a sqlite-backed embedding index implementing Retriever.
// The corpus is small (office documents), so ranking loads all chunks and
// scores them in memory.
type Index struct {
	db       *gorm.DB
	embedder Embedder
}

func NewIndex(db *gorm.DB, embedder Embedder) (*Index, error) {
	if err := db.AutoMigrate(&Chunk{}); err != nil {
		return nil, fmt.Errorf("failed to migrate knowledge schema: %w", err)
	}
	return &Index{db: db, embedder: embedder}, nil
}

// Count returns the number of stored chunks.
func (ix *Index) Count(ctx context.Context) (int64, error) {
	var n int64
	err := ix.db.WithContext(ctx).Model(&Chunk{}).Count(&n).Error
	return n, err
}

// Ingest clears the index and rebuilds it from every *.md and *.txt file
// under dataDir. It returns the number of documents and chunks stored.
func (ix *Index) Ingest(ctx context.Context, dataDir string) (docs, chunks int, err error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return 0, 0, fmt.Errorf("data directory %s not found: %w", dataDir, err)
	}

	type pending struct {
		source string
		index  int
		text   string
	}
	var all []pending
	sources := map[string]bool{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}

		content, readErr := os.ReadFile(filepath.Join(dataDir, entry.Name()))
		if readErr != nil {
			slog.Warn("Skipping unreadable document", "file", entry.Name(), "error", readErr)
			continue
		}

		for i, text := range SplitText(string(content), defaultChunkSize, defaultChunkOverlap) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			all = append(all, pending{source: entry.Name(), index: i, text: text})
			sources[entry.Name()] = true
		}
	}

	if len(all) == 0 {
		return 0, 0, fmt.Errorf("no documents found in %s", dataDir)
	}

	texts := make([]string, len(all))
	for i, p := range all {
		texts[i] = p.text
	}
	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, 0, err
	}

	err = ix.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Chunk{}).Error; err != nil {
			return err
		}
		for i, p := range all {
			raw, err := json.Marshal(vectors[i])
			if err != nil {
				return err
			}
			chunk := Chunk{Source: p.source, ChunkIndex: p.index, Text: p.text, Embedding: raw}
			if err := tx.Create(&chunk).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(sources), len(all), nil
}

// Retrieve embeds the question and returns the k best-scoring passages by
// cosine similarity.
func (ix *Index) Retrieve(ctx context.Context, question string, k int) ([]Passage, error) {
	vectors, err := ix.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	query := vectors[0]

	var stored []Chunk
	if err := ix.db.WithContext(ctx).Find(&stored).Error; err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}

	type scored struct {
		chunk Chunk
		score float64
	}
	ranked := make([]scored, 0, len(stored))
	for _, c := range stored {
		var vec []float32
		if err := json.Unmarshal(c.Embedding, &vec); err != nil {
			continue
		}
		ranked = append(ranked, scored{chunk: c, score: cosine(query, vec)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	passages := make([]Passage, 0, k)
	for _, r := range ranked[:k] {
		passages = append(passages, Passage{Text: r.chunk.Text, Source: r.chunk.Source})
	}
	return passages, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
