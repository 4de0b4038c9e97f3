package retrieval

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDistanceToRelevance(t *testing.T) {
	cases := []struct {
		dist float64
		want float64
	}{
		{0.0, 1.0},
		{0.25, 0.75},
		{1.0, 0.0},
		{1.5, 0.0},  // clamp below
		{-0.1, 1.0}, // clamp above
	}
	for _, c := range cases {
		if got := distanceToRelevance(c.dist); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("distanceToRelevance(%f) = %f, want %f", c.dist, got, c.want)
		}
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.0}
	blob := vectorBlob(vec)
	if len(blob) != 12 {
		t.Fatalf("blob length = %d, want 12", len(blob))
	}
	for i, want := range vec {
		got := math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
		if got != want {
			t.Errorf("component %d = %f, want %f", i, got, want)
		}
	}
}

func TestDocToHitMissingPage(t *testing.T) {
	h := docToHit(map[string]string{
		fieldContent:  "chunk text",
		fieldSource:   "aml.pdf",
		fieldDistance: "0.1",
	})
	if h.Page != -1 {
		t.Errorf("missing page should map to -1, got %d", h.Page)
	}
	if math.Abs(h.Score-0.9) > 1e-9 {
		t.Errorf("score = %f, want 0.9", h.Score)
	}
}
