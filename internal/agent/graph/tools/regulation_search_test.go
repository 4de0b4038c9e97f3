package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jurislens-poc/server/internal/knowledge"
	"github.com/jurislens-poc/server/internal/retrieval"
)

type fakeRetriever struct {
	hits []retrieval.Hit
	err  error
}

func (f *fakeRetriever) Query(context.Context, string, int) ([]retrieval.Hit, error) {
	return f.hits, f.err
}

func (f *fakeRetriever) Index(context.Context, string, int, []string) error {
	return nil
}

func TestSearchNoBackendEmptyStore(t *testing.T) {
	deps := Deps{Knowledge: knowledge.NewStore()}

	got := searchRegulations(context.Background(), deps, "crypto AML requirements")
	if got != NoResultsMessage {
		t.Fatalf("got %q, want the fixed no-results message", got)
	}
}

func TestSearchLocalFallbackFormatting(t *testing.T) {
	store := knowledge.NewStore()
	store.Add(knowledge.Chunk{Source: "mica.pdf", Page: -1, Content: "Crypto asset service providers must register with the authority."})
	deps := Deps{Knowledge: store}

	got := searchRegulations(context.Background(), deps, "crypto asset providers register")
	want := "[Source: mica.pdf | Relevance: 0.40 (Local Keyword Match)]\nCrypto asset service providers must register with the authority."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestSearchRemotePrecedence(t *testing.T) {
	// Local store would score this query highly, but remote results must win.
	store := knowledge.NewStore()
	store.Add(knowledge.Chunk{Source: "local.pdf", Page: -1, Content: "transfer limits transfer limits transfer limits"})

	deps := Deps{
		Knowledge: store,
		Retriever: &fakeRetriever{hits: []retrieval.Hit{
			{Source: "remote.pdf", Page: 4, Score: 0.0123, Content: "Remote chunk."},
		}},
	}

	got := searchRegulations(context.Background(), deps, "transfer limits")
	if !strings.Contains(got, "[Source: remote.pdf (Page 5)] [Relevance: 0.0123]") {
		t.Fatalf("remote citation missing or wrong: %q", got)
	}
	if strings.Contains(got, "local.pdf") {
		t.Fatalf("local results must not appear when remote results exist: %q", got)
	}
}

func TestSearchRemoteErrorFallsBack(t *testing.T) {
	store := knowledge.NewStore()
	store.Add(knowledge.Chunk{Source: "local.pdf", Page: -1, Content: "payment regulations apply here"})

	deps := Deps{
		Knowledge: store,
		Retriever: &fakeRetriever{err: errors.New("connection refused")},
	}

	got := searchRegulations(context.Background(), deps, "payment regulations")
	if !strings.Contains(got, "Local Keyword Match") {
		t.Fatalf("backend error must fall back to local results: %q", got)
	}
}

func TestSearchRemoteEmptyFallsBack(t *testing.T) {
	store := knowledge.NewStore()
	store.Add(knowledge.Chunk{Source: "local.pdf", Page: -1, Content: "payment regulations apply here"})

	deps := Deps{Knowledge: store, Retriever: &fakeRetriever{}}

	got := searchRegulations(context.Background(), deps, "payment regulations")
	if !strings.Contains(got, "local.pdf") {
		t.Fatalf("empty remote result must fall back to local results: %q", got)
	}
}

func TestFormatRemoteHits(t *testing.T) {
	got := formatRemoteHits([]retrieval.Hit{
		{Source: "a.pdf", Page: 0, Score: 0.9, Content: "First."},
		{Source: "", Page: -1, Score: 0.5, Content: "Second."},
	})

	blocks := strings.Split(got, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %q", len(blocks), got)
	}
	if blocks[0] != "[Source: a.pdf (Page 1)] [Relevance: 0.9000]\nFirst." {
		t.Errorf("block 0 = %q", blocks[0])
	}
	if blocks[1] != "[Source: Unknown] [Relevance: 0.5000]\nSecond." {
		t.Errorf("block 1 = %q", blocks[1])
	}
}
