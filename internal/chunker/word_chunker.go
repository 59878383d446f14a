package chunker

import (
	"strings"

	"docqa/internal/domain"
)

// DefaultChunkSize is the number of words per chunk when none is configured.
const DefaultChunkSize = 600

// WordChunker splits text into consecutive, non-overlapping windows of words.
type WordChunker struct {
	chunkSize int
}

func NewWordChunker(chunkSize int) *WordChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &WordChunker{chunkSize: chunkSize}
}

// Size returns the number of words per chunk.
func (c *WordChunker) Size() int { return c.chunkSize }

// Chunk splits text on whitespace and re-joins each window with single spaces.
// The last chunk may hold fewer words than the chunk size.
func (c *WordChunker) Chunk(text string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]domain.Chunk, 0, (len(words)+c.chunkSize-1)/c.chunkSize)
	for start := 0; start < len(words); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			Index: len(chunks),
			Text:  strings.Join(words[start:end], " "),
		})
	}
	return chunks
}
