package domain

import "context"

// Document is the text extracted from a single uploaded file.
type Document struct {
	ID    string
	Name  string
	Text  string
	Pages int
}

// Extraction is the raw result of reading an uploaded file.
type Extraction struct {
	Text  string
	Pages int
}

// Chunk is a contiguous span of words, identified by its position in the document.
type Chunk struct {
	Index int
	Text  string
}

// ScoredChunk pairs a chunk with its term-overlap score against one query.
type ScoredChunk struct {
	Chunk Chunk
	Score int
}

// Provenance records which generation path produced an answer.
type Provenance string

const (
	FromDocument     Provenance = "from_document"
	GeneralKnowledge Provenance = "general_knowledge"
)

// Label returns the display label for the provenance.
func (p Provenance) Label() string {
	if p == FromDocument {
		return "From Document"
	}
	return "General Knowledge"
}

// Answer is the final result of one question.
type Answer struct {
	Text       string
	Provenance Provenance
	Sources    []Chunk
}

// Extractor turns an uploaded file into plain text.
type Extractor interface {
	Extract(name string, data []byte) (Extraction, error)
}

// Chunker splits document text into ordered chunks.
type Chunker interface {
	Chunk(text string) []Chunk
}

// Ranker selects the chunks most relevant to a question.
type Ranker interface {
	Retrieve(chunks []Chunk, question string, k int) []Chunk
}

// SufficiencyOracle decides whether a context answers a question.
type SufficiencyOracle interface {
	IsSufficient(ctx context.Context, context, question string) (bool, error)
}

// AnswerGenerator produces answers and summaries through the language model.
type AnswerGenerator interface {
	DocumentAnswer(ctx context.Context, context, question string) (string, error)
	GeneralAnswer(ctx context.Context, question string) (string, error)
	Summary(ctx context.Context, text string) (string, error)
}

// QAService defines the operations exposed by the application core.
type QAService interface {
	LoadDocument(ctx context.Context, name string, data []byte) (Document, int, error)
	Ask(ctx context.Context, documentID, question string) (Answer, error)
	Summarize(ctx context.Context, documentID string) (string, error)
	Forget(documentID string) bool
}
