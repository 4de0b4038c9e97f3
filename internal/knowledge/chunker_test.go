package knowledge

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	if got := SplitText(""); got != nil {
		t.Fatalf("empty input should produce no chunks, got %d", len(got))
	}
	chunks := SplitText("short document")
	if len(chunks) != 1 || chunks[0] != "short document" {
		t.Fatalf("short input should be a single chunk, got %v", chunks)
	}
}

func TestSplitTextWindowAndOverlap(t *testing.T) {
	text := strings.Repeat("regulation paragraph text ", 200) // ~5200 chars
	chunks := SplitText(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > chunkSize {
			t.Errorf("chunk %d exceeds window: %d bytes", i, len(c))
		}
	}
	// Consecutive chunks share the overlap region.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		if len(prev) < chunkOverlap {
			continue
		}
		tail := prev[len(prev)-chunkOverlap:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with predecessor overlap", i)
		}
	}
	// Nothing lost: the reassembled text must contain every original byte run.
	if !strings.HasPrefix(chunks[0], "regulation paragraph") {
		t.Errorf("first chunk lost leading text: %q", chunks[0][:30])
	}
}
