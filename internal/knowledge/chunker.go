package knowledge

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

// SplitText slices text into overlapping windows for ingestion: roughly
// 1000 characters per chunk with a 100 character overlap between
// neighbours. Splitting is byte-oriented but snaps back to the nearest
// whitespace inside the window so words are not cut mid-token.
func SplitText(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		cut := lastSpace(text[start:end])
		if cut <= chunkOverlap {
			// No usable boundary, take the hard window.
			cut = chunkSize
		}
		chunks = append(chunks, text[start:start+cut])

		next := start + cut - chunkOverlap
		if next <= start {
			next = start + cut
		}
		start = next
	}
	return chunks
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\n', '\t', '\r':
			return i
		}
	}
	return -1
}
