package knowledge

import "strings"

const (
	defaultChunkSize    = 800
	defaultChunkOverlap = 150
)

// SplitText splits text into overlapping chunks, preferring to break at a
// sentence end, then a paragraph break, then a line break, before falling
// back to a hard cut.
func SplitText(text string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = defaultChunkOverlap
	}

	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		} else {
			// Look for sentence endings first
			if cut := strings.LastIndex(text[start:end], "."); cut > chunkSize/2 {
				end = start + cut + 1
			} else if cut := strings.LastIndex(text[start:end], "\n\n"); cut > chunkSize/2 {
				end = start + cut + 2
			} else if cut := strings.LastIndex(text[start:end], "\n"); cut > chunkSize/2 {
				end = start + cut + 1
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		start = end - chunkOverlap
		if start >= len(text) || end == len(text) {
			break
		}
	}

	return chunks
}
