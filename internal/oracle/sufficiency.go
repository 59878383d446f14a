package oracle

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/llm"
)

const promptTemplate = `
Context:
%s

Question:
%s

Task:
Respond with only one word:
YES if the context contains sufficient information.
NO if it does not.
`

// Sufficiency asks the language model whether a context answers a question.
type Sufficiency struct {
	client llm.Client
}

var _ domain.SufficiencyOracle = (*Sufficiency)(nil)

func NewSufficiency(client llm.Client) *Sufficiency {
	return &Sufficiency{client: client}
}

// Prompt renders the YES/NO instruction for context and question.
func Prompt(context, question string) string {
	return fmt.Sprintf(promptTemplate, context, question)
}

// ParseVerdict reports whether resp is exactly YES, ignoring case and surrounding
// whitespace. Anything else counts as NO.
func ParseVerdict(resp string) bool {
	return strings.ToUpper(strings.TrimSpace(resp)) == "YES"
}

// IsSufficient issues a plain model call. Model failures are returned, not defaulted.
func (s *Sufficiency) IsSufficient(ctx context.Context, context, question string) (bool, error) {
	resp, err := s.client.Generate(ctx, Prompt(context, question))
	if err != nil {
		return false, domain.NewCollaboratorError("sufficiency", err)
	}
	return ParseVerdict(resp), nil
}
