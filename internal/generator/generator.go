package generator

import (
	"context"
	"fmt"

	"docqa/internal/domain"
	"docqa/internal/llm"
)

const (
	documentTemplate = `
Answer the question using only the information provided in the context.

Context:
%s

Question:
%s

If the answer cannot be determined, state that it is not present in the document.
`

	generalTemplate = `
The document does not contain the required information.

Provide a clear and informative explanation based on general knowledge.
Limit the response to 5-8 well-structured sentences.

Question:
%s
`

	summaryTemplate = `
Provide a concise and well-structured summary of the following document:

%s
`
)

// Sampling bounds the output of one kind of generation call.
type Sampling struct {
	MaxTokens   int
	Temperature float64
}

func (s Sampling) options() []llm.Option {
	return []llm.Option{llm.WithMaxTokens(s.MaxTokens), llm.WithTemperature(s.Temperature)}
}

// Config holds the sampling parameters for every generation path.
type Config struct {
	Document        Sampling
	General         Sampling
	Summary         Sampling
	SummaryMaxChars int
}

// DefaultConfig returns the stock sampling parameters.
func DefaultConfig() Config {
	return Config{
		Document:        Sampling{MaxTokens: 1700, Temperature: 0.3},
		General:         Sampling{MaxTokens: 400, Temperature: 0.4},
		Summary:         Sampling{MaxTokens: 500, Temperature: 0.3},
		SummaryMaxChars: 12000,
	}
}

// Generator produces document-grounded answers, general-knowledge answers and
// summaries through a single model client.
type Generator struct {
	client llm.Client
	cfg    Config
}

var _ domain.AnswerGenerator = (*Generator)(nil)

func New(client llm.Client, cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Document.MaxTokens <= 0 {
		cfg.Document = def.Document
	}
	if cfg.General.MaxTokens <= 0 {
		cfg.General = def.General
	}
	if cfg.Summary.MaxTokens <= 0 {
		cfg.Summary = def.Summary
	}
	if cfg.SummaryMaxChars <= 0 {
		cfg.SummaryMaxChars = def.SummaryMaxChars
	}
	return &Generator{client: client, cfg: cfg}
}

// DocumentPrompt renders the grounded-answer instruction.
func DocumentPrompt(context, question string) string {
	return fmt.Sprintf(documentTemplate, context, question)
}

// GeneralPrompt renders the general-knowledge instruction.
func GeneralPrompt(question string) string {
	return fmt.Sprintf(generalTemplate, question)
}

// SummaryPrompt renders the summary instruction for already truncated text.
func SummaryPrompt(text string) string {
	return fmt.Sprintf(summaryTemplate, text)
}

// DocumentAnswer answers strictly from context.
func (g *Generator) DocumentAnswer(ctx context.Context, context, question string) (string, error) {
	out, err := g.client.Generate(ctx, DocumentPrompt(context, question), g.cfg.Document.options()...)
	if err != nil {
		return "", domain.NewCollaboratorError("document_answer", err)
	}
	return out, nil
}

// GeneralAnswer answers the question alone.
func (g *Generator) GeneralAnswer(ctx context.Context, question string) (string, error) {
	out, err := g.client.Generate(ctx, GeneralPrompt(question), g.cfg.General.options()...)
	if err != nil {
		return "", domain.NewCollaboratorError("general_answer", err)
	}
	return out, nil
}

// Summary summarizes the leading part of text.
func (g *Generator) Summary(ctx context.Context, text string) (string, error) {
	out, err := g.client.Generate(ctx, SummaryPrompt(Truncate(text, g.cfg.SummaryMaxChars)), g.cfg.Summary.options()...)
	if err != nil {
		return "", domain.NewCollaboratorError("summary", err)
	}
	return out, nil
}

// Truncate returns at most n characters of s without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
