package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
)

// Inference modes reported alongside the resulting weights.
const (
	ModeSemantic = "semantic"
	ModeKeyword  = "keyword"
	ModeDefault  = "default"
)

// InferenceConfig tunes the semantic matching behavior.
type InferenceConfig struct {
	// TopK is how many catalog entries are blended. Capped at catalog size.
	TopK int
	// SimilarityFloor is the cosine similarity below which a catalog entry
	// is considered unrelated. Semantic mode fails when every selected
	// entry is at or below the floor.
	SimilarityFloor float64
	// Timeout bounds the embedding calls for one inference. A timeout is
	// treated the same as an embedder failure.
	Timeout time.Duration
}

// InferenceService converts free-text suburb descriptions into preference
// weights. Semantic similarity against the example catalog is preferred;
// keyword matching is the fallback, and the default weights the last resort.
// InferWeights never returns an error.
type InferenceService struct {
	embedder port.Embedder
	catalog  []domain.ExampleProfile
	cfg      InferenceConfig

	// Catalog embeddings are computed once and reused for the process
	// lifetime. The pointer is published atomically so steady-state reads
	// take no lock; the mutex serializes the first initialization.
	mu          sync.Mutex
	catalogVecs atomic.Pointer[[][]float32]
}

// NewInferenceService creates an inference service. A nil embedder disables
// semantic mode entirely (keyword fallback only).
func NewInferenceService(embedder port.Embedder, catalog []domain.ExampleProfile, cfg InferenceConfig) *InferenceService {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &InferenceService{embedder: embedder, catalog: catalog, cfg: cfg}
}

// InferWeights converts a natural-language query into preference weights.
func (s *InferenceService) InferWeights(ctx context.Context, query string) domain.WeightVector {
	w, _ := s.Infer(ctx, query)
	return w
}

// Infer converts a natural-language query into preference weights and
// reports which mode produced them.
func (s *InferenceService) Infer(ctx context.Context, query string) (domain.WeightVector, string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.DefaultWeights(), ModeDefault
	}

	w, err := s.inferSemantic(ctx, query)
	if err == nil {
		return w, ModeSemantic
	}
	slog.Info("semantic inference unavailable, using keyword fallback", "reason", err)

	if w, matched := keywordWeights(query); matched {
		return w, ModeKeyword
	}
	return domain.DefaultWeights(), ModeDefault
}

// inferSemantic embeds the query, ranks the catalog by cosine similarity
// and blends the top-K example weights proportionally to their similarity.
func (s *InferenceService) inferSemantic(ctx context.Context, query string) (domain.WeightVector, error) {
	if s.embedder == nil {
		return domain.WeightVector{}, port.ErrEmbedderUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	catalogVecs, err := s.catalogEmbeddings(ctx)
	if err != nil {
		return domain.WeightVector{}, err
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return domain.WeightVector{}, fmt.Errorf("embed query: %w", err)
	}

	// Both sides are unit-normalized, so dot product is cosine similarity.
	sims := make([]float64, len(catalogVecs))
	for i, cv := range catalogVecs {
		sims[i] = dot(cv, queryVec)
	}

	topK := s.cfg.TopK
	if topK > len(s.catalog) {
		topK = len(s.catalog)
	}
	idx := make([]int, len(sims))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return sims[idx[a]] > sims[idx[b]] })
	idx = idx[:topK]

	var simSum float64
	allBelow := true
	for _, i := range idx {
		if sims[i] > s.cfg.SimilarityFloor {
			allBelow = false
		}
		simSum += sims[i]
	}
	if allBelow || simSum <= 0 {
		return domain.WeightVector{}, port.ErrNoSimilarProfile
	}

	// Blend example weights proportionally to normalized similarity.
	var blended domain.WeightVector
	for _, i := range idx {
		blended = blended.Add(s.catalog[i].Weights.Scale(sims[i] / simSum))
	}

	// Renormalize so the result sums to exactly 1.0.
	return blended.Normalized(), nil
}

// catalogEmbeddings lazily embeds the example catalog, once per process.
// Concurrent first callers block on the mutex; a failed attempt is retried
// on the next call.
func (s *InferenceService) catalogEmbeddings(ctx context.Context) ([][]float32, error) {
	if p := s.catalogVecs.Load(); p != nil {
		return *p, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.catalogVecs.Load(); p != nil {
		return *p, nil
	}

	texts := make([]string, len(s.catalog))
	for i, ex := range s.catalog {
		texts[i] = ex.Text
	}

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	if len(vecs) != len(s.catalog) {
		return nil, fmt.Errorf("embed catalog: got %d vectors for %d profiles", len(vecs), len(s.catalog))
	}

	slog.Info("example catalog embedded", "profiles", len(vecs), "model", s.embedder.ModelName())
	s.catalogVecs.Store(&vecs)
	return vecs, nil
}

// keywordWeights maps trigger-phrase presence to weights. Each phrase
// contributes at most once per category. matched is false when no trigger
// phrase occurs in the text at all.
func keywordWeights(query string) (domain.WeightVector, bool) {
	text := strings.ToLower(query)

	count := func(category string) float64 {
		var n float64
		for _, phrase := range domain.KeywordTriggers[category] {
			if strings.Contains(text, phrase) {
				n++
			}
		}
		return n
	}

	w := domain.WeightVector{
		Recreation: count("recreation"),
		Community:  count("community"),
		Transport:  count("transport"),
		Education:  count("education"),
		Utility:    count("utility"),
	}
	if w.Sum() == 0 {
		return domain.DefaultWeights(), false
	}
	return w.Normalized(), true
}

// KeywordWeights exposes the keyword fallback directly: trigger-phrase
// matches normalized by their total, or the default weights when nothing
// matches.
func KeywordWeights(query string) domain.WeightVector {
	if strings.TrimSpace(query) == "" {
		return domain.DefaultWeights()
	}
	w, _ := keywordWeights(query)
	return w
}

// dot computes the inner product of two vectors. Mismatched lengths score 0.
func dot(a []float32, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
