package knowledge

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// Chunk is one ingested slice of a document with source attribution.
// Page is zero-indexed; -1 means the source has no page structure.
type Chunk struct {
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// Match is a scored chunk produced by a keyword query. Relevance is a coarse
// heuristic in [0,1) derived from keyword hit counts, not a real similarity
// metric.
type Match struct {
	Chunk
	Relevance float64
}

// Store is the in-process fallback knowledge base backing regulation search
// when the remote vector index is unavailable. It is append-only: chunks keep
// insertion order, are never mutated, and only Reset drops them. Reads may
// run concurrently with appends.
type Store struct {
	mu     sync.RWMutex
	chunks []Chunk
}

func NewStore() *Store {
	return &Store{}
}

// Add appends chunks in order. Duplicates are kept; re-ingesting a source
// simply appends again.
func (s *Store) Add(chunks ...Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Reset drops all stored chunks.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
}

// Search ranks stored chunks against the query by keyword hits and returns
// at most k matches. The query is lower-cased and split on whitespace; terms
// of length <= 3 are ignored. A chunk scores one hit per distinct term that
// appears as a substring of its lower-cased content; zero-hit chunks are
// dropped. Ties keep insertion order. Relevance is min(0.99, hits/10).
func (s *Store) Search(query string, k int) []Match {
	terms := queryTerms(query)
	if len(terms) == 0 || k <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		chunk Chunk
		hits  int
	}

	candidates := make([]scored, 0, len(s.chunks))
	for _, c := range s.chunks {
		content := strings.ToLower(c.Content)
		hits := 0
		for _, t := range terms {
			if strings.Contains(content, t) {
				hits++
			}
		}
		if hits > 0 {
			candidates = append(candidates, scored{chunk: c, hits: hits})
		}
	}

	// Stable: equal scores preserve insertion order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].hits > candidates[j].hits
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, Match{
			Chunk:     c.chunk,
			Relevance: math.Min(0.99, float64(c.hits)/10.0),
		})
	}
	return matches
}

func queryTerms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) > 3 {
			terms = append(terms, t)
		}
	}
	return terms
}
