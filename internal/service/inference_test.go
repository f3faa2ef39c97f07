package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
)

// stubEmbedder returns fixed vectors so similarity outcomes are exact.
// Catalog texts map to unit basis vectors; the query maps to queryVec.
type stubEmbedder struct {
	queryVec   []float32
	embedErr   error
	batchErr   error
	batchCalls atomic.Int64
}

func (s *stubEmbedder) ModelName() string { return "stub" }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return s.queryVec, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.batchCalls.Add(1)
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, len(texts))
		v[i] = 1
		vecs[i] = v
	}
	return vecs, nil
}

// unitQuery builds a unit-normalized query vector whose dot product with
// catalog basis vector i is proportional to sims[i].
func unitQuery(sims []float64) []float32 {
	var sum float64
	for _, s := range sims {
		sum += s * s
	}
	norm := math.Sqrt(sum)
	v := make([]float32, len(sims))
	for i, s := range sims {
		v[i] = float32(s / norm)
	}
	return v
}

func newTestService(e *stubEmbedder) *InferenceService {
	if e == nil {
		return NewInferenceService(nil, domain.ExampleCatalog(), InferenceConfig{})
	}
	return NewInferenceService(e, domain.ExampleCatalog(), InferenceConfig{})
}

func TestInferEmptyQueryReturnsDefault(t *testing.T) {
	svc := newTestService(nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		w, mode := svc.Infer(context.Background(), q)
		assert.Equal(t, domain.DefaultWeights(), w)
		assert.Equal(t, ModeDefault, mode)
	}
}

func TestInferSemanticBlendsTopK(t *testing.T) {
	// Catalog similarities proportional to [0.9, 0.5, 0.1, -0.2, -0.3, -0.5]:
	// top 3 are the first three profiles with blend weights 0.9/1.5,
	// 0.5/1.5 and 0.1/1.5.
	embedder := &stubEmbedder{queryVec: unitQuery([]float64{0.9, 0.5, 0.1, -0.2, -0.3, -0.5})}
	svc := newTestService(embedder)

	w, mode := svc.Infer(context.Background(), "somewhere lively but liveable")
	require.Equal(t, ModeSemantic, mode)

	// Hand-computed blend of the first three catalog weight vectors.
	expected := domain.WeightVector{
		Recreation: 0.2466667,
		Community:  0.2433333,
		Transport:  0.2066667,
		Education:  0.2233333,
		Utility:    0.0800000,
	}
	assert.InDelta(t, expected.Recreation, w.Recreation, 1e-6)
	assert.InDelta(t, expected.Community, w.Community, 1e-6)
	assert.InDelta(t, expected.Transport, w.Transport, 1e-6)
	assert.InDelta(t, expected.Education, w.Education, 1e-6)
	assert.InDelta(t, expected.Utility, w.Utility, 1e-6)
	assert.InDelta(t, 1.0, w.Sum(), 1e-6)
}

func TestInferAllNegativeSimilaritiesFallsBackToKeyword(t *testing.T) {
	embedder := &stubEmbedder{queryVec: unitQuery([]float64{-1, -1, -1, -1, -1, -1})}
	svc := newTestService(embedder)

	query := "lots of parks and beaches"
	w, mode := svc.Infer(context.Background(), query)

	assert.Equal(t, ModeKeyword, mode)
	assert.Equal(t, KeywordWeights(query), w)
}

func TestInferEmbedderErrorFallsBackToKeyword(t *testing.T) {
	embedder := &stubEmbedder{batchErr: errors.New("connection refused")}
	svc := newTestService(embedder)

	w, mode := svc.Infer(context.Background(), "good schools for the kids")
	assert.Equal(t, ModeKeyword, mode)
	assert.InDelta(t, 1.0, w.Sum(), 1e-6)
}

func TestInferNilEmbedderUsesKeyword(t *testing.T) {
	svc := newTestService(nil)

	w, mode := svc.Infer(context.Background(), "near a train station with good transport")
	assert.Equal(t, ModeKeyword, mode)
	assert.Greater(t, w.Transport, w.Recreation)
}

func TestInferAlwaysSumsToOne(t *testing.T) {
	embedder := &stubEmbedder{queryVec: unitQuery([]float64{0.2, 0.7, 0.1, 0.4, -0.1, 0.3})}
	svc := newTestService(embedder)

	queries := []string{
		"",
		"quiet suburb with a library and community centre",
		"xyzzy gibberish nothing matches",
		"beaches, schools, hospitals and a train line",
	}
	for _, q := range queries {
		w, _ := svc.Infer(context.Background(), q)
		assert.InDeltaf(t, 1.0, w.Sum(), 1e-6, "query %q", q)
		assert.GreaterOrEqual(t, w.Recreation, 0.0)
		assert.GreaterOrEqual(t, w.Community, 0.0)
		assert.GreaterOrEqual(t, w.Transport, 0.0)
		assert.GreaterOrEqual(t, w.Education, 0.0)
		assert.GreaterOrEqual(t, w.Utility, 0.0)
	}
}

func TestKeywordRecreationOnly(t *testing.T) {
	w := KeywordWeights("lots of parks and beaches")

	assert.Equal(t, 1.0, w.Recreation)
	assert.Equal(t, 0.0, w.Community)
	assert.Equal(t, 0.0, w.Transport)
	assert.Equal(t, 0.0, w.Education)
	assert.Equal(t, 0.0, w.Utility)
}

func TestKeywordNoMatchReturnsDefault(t *testing.T) {
	assert.Equal(t, domain.DefaultWeights(), KeywordWeights("zorp blarg frobnicate"))
	assert.Equal(t, domain.DefaultWeights(), KeywordWeights("   "))
}

func TestKeywordPresenceNotOccurrence(t *testing.T) {
	// "train" three times still counts once; "library" once. Transport has
	// one matching phrase, community has one, so the split is even.
	w := KeywordWeights("train train train library")
	assert.InDelta(t, 0.5, w.Transport, 1e-9)
	assert.InDelta(t, 0.5, w.Community, 1e-9)
}

func TestInferDeterministic(t *testing.T) {
	embedder := &stubEmbedder{queryVec: unitQuery([]float64{0.9, 0.5, 0.1, -0.2, -0.3, -0.5})}
	svc := newTestService(embedder)

	first, _ := svc.Infer(context.Background(), "family friendly with good schools")
	second, _ := svc.Infer(context.Background(), "family friendly with good schools")
	assert.Equal(t, first, second)
}

func TestCatalogEmbeddedOnce(t *testing.T) {
	embedder := &stubEmbedder{queryVec: unitQuery([]float64{1, 0, 0, 0, 0, 0})}
	svc := newTestService(embedder)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Infer(context.Background(), "parks and playgrounds")
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), embedder.batchCalls.Load())
}

func TestCatalogInitRetriedAfterFailure(t *testing.T) {
	embedder := &stubEmbedder{
		queryVec: unitQuery([]float64{1, 0, 0, 0, 0, 0}),
		batchErr: errors.New("ollama not ready"),
	}
	svc := newTestService(embedder)

	_, mode := svc.Infer(context.Background(), "parks everywhere")
	assert.Equal(t, ModeKeyword, mode)

	embedder.batchErr = nil
	_, mode = svc.Infer(context.Background(), "parks everywhere")
	assert.Equal(t, ModeSemantic, mode)
	assert.Equal(t, int64(2), embedder.batchCalls.Load())
}

func TestSimilarityFloorConfigurable(t *testing.T) {
	// With a floor above every similarity, semantic mode must fail even
	// though all similarities are positive.
	embedder := &stubEmbedder{queryVec: unitQuery([]float64{0.3, 0.2, 0.1, 0.05, 0.04, 0.03})}
	svc := NewInferenceService(embedder, domain.ExampleCatalog(), InferenceConfig{SimilarityFloor: 0.99})

	_, mode := svc.Infer(context.Background(), "lots of parks")
	assert.Equal(t, ModeKeyword, mode)
}
