package text

import (
	"errors"
	"fmt"
	"strconv"

	"content-summarizer/internal/domain/entity"
)

const (
	// DefaultChunkSize is the maximum number of runes per chunk.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the number of runes shared by adjacent chunks.
	DefaultChunkOverlap = 100
)

// ErrInvalidSplitter is returned by NewSplitter for unusable size/overlap pairs.
var ErrInvalidSplitter = errors.New("invalid splitter configuration")

// Splitter cuts text into fixed-size windows that overlap by ChunkOverlap runes.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultSplitter returns a Splitter with DefaultChunkSize and DefaultChunkOverlap.
func DefaultSplitter() Splitter {
	return Splitter{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// NewSplitter validates size and overlap and returns a Splitter.
func NewSplitter(size, overlap int) (Splitter, error) {
	if size <= 0 {
		return Splitter{}, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidSplitter, size)
	}
	if overlap < 0 {
		return Splitter{}, fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidSplitter, overlap)
	}
	if overlap >= size {
		return Splitter{}, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidSplitter, overlap, size)
	}
	return Splitter{ChunkSize: size, ChunkOverlap: overlap}, nil
}

func (s Splitter) step() int {
	return s.ChunkSize - s.ChunkOverlap
}

// ChunkCount returns how many chunks Split produces for a text of n runes.
func (s Splitter) ChunkCount(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= s.ChunkSize:
		return 1
	}
	step := s.step()
	return (n-s.ChunkSize+step-1)/step + 1
}

// Split returns the overlapping windows of text. Chunk i covers runes
// [i*step, min(i*step+size, len)); the last chunk is the first to reach the end.
func (s Splitter) Split(text string) []string {
	runes := []rune(text)
	n := s.ChunkCount(len(runes))
	if n == 0 {
		return nil
	}

	chunks := make([]string, 0, n)
	step := s.step()
	for i := 0; i < n; i++ {
		start := i * step
		end := min(start+s.ChunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// SplitDocuments splits every document and copies its metadata onto each chunk,
// numbering chunks from zero across the whole input under entity.MetaChunk.
func (s Splitter) SplitDocuments(docs []entity.Document) []entity.Document {
	var out []entity.Document
	for _, doc := range docs {
		for _, chunk := range s.Split(doc.Content) {
			c := entity.Document{Content: chunk, Metadata: doc.Metadata}
			out = append(out, c.WithMeta(entity.MetaChunk, strconv.Itoa(len(out))))
		}
	}
	return out
}
