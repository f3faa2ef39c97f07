package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
)

// OllamaConfig holds the configuration for the Ollama embed endpoint.
type OllamaConfig struct {
	BaseURL string // e.g. http://localhost:11434 or https://api.ollama.com
	Model   string // e.g. bge-m3, all-minilm
	Token   string // Bearer token for Ollama Cloud (empty = no auth)
}

// OllamaEmbedder implements port.Embedder using the Ollama REST API.
// Returned vectors are unit-normalized.
type OllamaEmbedder struct {
	cfg        OllamaConfig
	httpClient *http.Client
}

// NewOllamaEmbedder creates a new Ollama-backed embedder.
func NewOllamaEmbedder(cfg OllamaConfig) *OllamaEmbedder {
	return &OllamaEmbedder{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// ModelName returns the embedding model identifier.
func (o *OllamaEmbedder) ModelName() string {
	return o.cfg.Model
}

// Embed generates a unit-normalized vector embedding for the given text.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]interface{}{
		"model": o.cfg.Model,
		"input": text,
	}

	body, err := o.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama embed: empty response")
	}

	return UnitNormalize(resp.Embeddings[0]), nil
}

// EmbedBatch generates unit-normalized embeddings for multiple texts in one call.
func (o *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]interface{}{
		"model": o.cfg.Model,
		"input": texts,
	}

	body, err := o.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama embed batch: %w", err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed batch decode: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed batch: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	for i, v := range resp.Embeddings {
		resp.Embeddings[i] = UnitNormalize(v)
	}
	return resp.Embeddings, nil
}

// UnitNormalize scales a vector to Euclidean norm 1. The zero vector is
// returned unchanged.
func UnitNormalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// post is a helper for POST requests to the Ollama endpoint (with optional bearer token).
func (o *OllamaEmbedder) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.Token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
