package retrieval

import "context"

// Hit is one remote retrieval result: a chunk with its native relevance
// score in [0,1]. Page is zero-indexed, -1 when the chunk carries no page
// metadata.
type Hit struct {
	Content string
	Source  string
	Page    int
	Score   float64
}

// Retriever is the remote vector index consumed by regulation search.
// Implementations must wrap transport, auth and backend failures with
// errx.ErrBackendUnavailable; callers treat those as "no remote results"
// and fall through to the local keyword store.
type Retriever interface {
	// Query returns the k nearest chunks by semantic similarity.
	Query(ctx context.Context, text string, k int) ([]Hit, error)

	// Index writes ingested chunks of one source to the backend.
	Index(ctx context.Context, source string, page int, chunks []string) error
}
