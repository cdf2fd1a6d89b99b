// Package chunker splits documents into overlapping, size-bounded chunks.
package chunker

import "awsml-tutor/internal/model"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators are tried in order when choosing where a chunk ends.
var separators = []string{"\n\n", "\n", " "}

// Splitter cuts text into windows of at most chunkSize characters. Each
// window after the first starts exactly overlap characters before the end
// of the previous one.
type Splitter struct {
	chunkSize int
	overlap   int
}

type Option func(*Splitter)

func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 2
	}
	return s
}

func (s *Splitter) ChunkSize() int { return s.chunkSize }
func (s *Splitter) Overlap() int   { return s.overlap }

// Split chunks every document in order. Chunk metadata is a copy of the
// parent's metadata.
func (s *Splitter) Split(docs []model.Document) []model.Chunk {
	var chunks []model.Chunk
	for _, doc := range docs {
		for i, text := range s.SplitText(doc.Text) {
			chunks = append(chunks, model.Chunk{
				Text:     text,
				Index:    i,
				Metadata: copyMetadata(doc.Metadata),
			})
		}
	}
	return chunks
}

// SplitText splits a single text by character (rune) count.
func (s *Splitter) SplitText(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	var out []string
	start := 0
	for {
		if len(runes)-start <= s.chunkSize {
			out = append(out, string(runes[start:]))
			return out
		}
		end := s.boundary(runes, start)
		out = append(out, string(runes[start:end]))
		start = end - s.overlap
	}
}

// boundary picks the end of the window starting at start. The end must leave
// the next window starting strictly after start and keep the window no
// shorter than half the chunk size; within that range the largest separator
// closest to the size limit wins, else the window is cut hard at the limit.
func (s *Splitter) boundary(runes []rune, start int) int {
	limit := start + s.chunkSize
	lowest := start + s.overlap + 1
	if half := start + s.chunkSize/2; half > lowest {
		lowest = half
	}
	for _, sep := range separators {
		sepRunes := []rune(sep)
		for end := limit; end >= lowest && end >= len(sepRunes); end-- {
			if hasSuffix(runes[:end], sepRunes) {
				return end
			}
		}
	}
	return limit
}

func hasSuffix(runes, suffix []rune) bool {
	if len(suffix) > len(runes) {
		return false
	}
	offset := len(runes) - len(suffix)
	for i := range suffix {
		if runes[offset+i] != suffix[i] {
			return false
		}
	}
	return true
}

func copyMetadata(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
