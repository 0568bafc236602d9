package retrieval

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeVectorLittleEndianFloat32(t *testing.T) {
	vec := []float32{1.0, -2.5, 0}
	blob := EncodeVector(vec)
	require.Len(t, blob, len(vec)*4)

	for i, want := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4 : i*4+4])
		assert.Equal(t, want, math.Float32frombits(bits))
	}
}

func TestEncodeVectorEmpty(t *testing.T) {
	assert.Empty(t, EncodeVector(nil))
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding service down")
}

func TestRetrieveFailsBeforeSearchWhenEmbeddingFails(t *testing.T) {
	// A nil Redis client proves the search is never attempted: reaching it
	// would panic instead of returning the embedder's error.
	r := NewRedisRetriever(nil, failingEmbedder{}, Config{IndexName: "idx", TopK: 3})

	_, err := r.Retrieve(context.Background(), "any query", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestIndexPassageRequiresIDAndContent(t *testing.T) {
	idx := NewIndexer(nil, failingEmbedder{}, Config{KeyPrefix: "knowledge:"})

	_, err := idx.IndexPassage(context.Background(), Passage{ID: "", Content: "text"})
	assert.Error(t, err)

	_, err = idx.IndexPassage(context.Background(), Passage{ID: "p1", Content: "  "})
	assert.Error(t, err)
}
