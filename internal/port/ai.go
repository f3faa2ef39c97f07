package port

import "context"

// Embedder abstracts the text embedding backend used for semantic
// preference matching. Implementations can target Ollama, OpenAI, or any
// compatible API. Vectors are unit-normalized so that dot product equals
// cosine similarity.
type Embedder interface {
	// ModelName returns the identifier of the embedding model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
