package knowledge

import (
	"math"
	"testing"
)

func TestSearchEmptyStore(t *testing.T) {
	s := NewStore()
	if got := s.Search("anti money laundering requirements", 3); got != nil {
		t.Fatalf("expected no matches from empty store, got %d", len(got))
	}
}

func TestSearchShortTermsIgnored(t *testing.T) {
	s := NewStore()
	s.Add(Chunk{Source: "aml.pdf", Page: -1, Content: "the act of a man in any era"})

	// Every query term is <= 3 chars, so nothing can match.
	if got := s.Search("the act of a in", 3); got != nil {
		t.Fatalf("expected no matches for short-only terms, got %d", len(got))
	}
}

func TestSearchScoring(t *testing.T) {
	s := NewStore()
	s.Add(
		Chunk{Source: "aml.pdf", Page: 0, Content: "Customer onboarding requires sanctions screening and transaction monitoring."},
		Chunk{Source: "kyc.pdf", Page: 2, Content: "Periodic review of customer files."},
	)

	got := s.Search("sanctions screening transaction monitoring", 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Source != "aml.pdf" {
		t.Errorf("source = %q, want aml.pdf", got[0].Source)
	}
	// 4 query terms, all appear in the chunk: relevance = min(0.99, 4/10).
	if math.Abs(got[0].Relevance-0.4) > 1e-9 {
		t.Errorf("relevance = %f, want 0.4", got[0].Relevance)
	}
}

func TestSearchRelevanceCapped(t *testing.T) {
	s := NewStore()
	s.Add(Chunk{Source: "big.pdf", Page: -1, Content: "alpha bravo charlie delta echoing foxtrot golfing hotel indigo juliet kilogram limassol"})

	got := s.Search("alpha bravo charlie delta echoing foxtrot golfing hotel indigo juliet kilogram limassol", 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Relevance != 0.99 {
		t.Errorf("relevance = %f, want cap 0.99", got[0].Relevance)
	}
}

func TestSearchStableOrderOnTies(t *testing.T) {
	s := NewStore()
	s.Add(
		Chunk{Source: "first.pdf", Page: -1, Content: "payment limits apply"},
		Chunk{Source: "second.pdf", Page: -1, Content: "payment limits apply"},
		Chunk{Source: "third.pdf", Page: -1, Content: "payment limits apply"},
	)

	got := s.Search("payment limits", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	for i, want := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		if got[i].Source != want {
			t.Errorf("match %d source = %q, want %q", i, got[i].Source, want)
		}
	}
}

func TestSearchTopK(t *testing.T) {
	s := NewStore()
	s.Add(
		Chunk{Source: "a", Page: -1, Content: "transfer rules transfer limits transfer checks"},
		Chunk{Source: "b", Page: -1, Content: "transfer rules transfer limits"},
		Chunk{Source: "c", Page: -1, Content: "transfer rules"},
		Chunk{Source: "d", Page: -1, Content: "transfer mention"},
	)

	got := s.Search("transfer rules limits checks", 3)
	if len(got) != 3 {
		t.Fatalf("expected top 3, got %d", len(got))
	}
	if got[0].Source != "a" {
		t.Errorf("best match = %q, want a", got[0].Source)
	}
}

func TestResetAndAppendOnly(t *testing.T) {
	s := NewStore()
	s.Add(Chunk{Source: "x", Page: -1, Content: "content"})
	s.Add(Chunk{Source: "x", Page: -1, Content: "content"})
	if s.Len() != 2 {
		t.Fatalf("duplicates must be kept, len = %d", s.Len())
	}
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("reset must drop all chunks, len = %d", s.Len())
	}
}
