package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"docqa/internal/domain"
)

var validate = validator.New()

type QuestionRequest struct {
	Question string `json:"question" validate:"required"`
}

// Validate returns field errors keyed by field name, or nil.
func (r *QuestionRequest) Validate() map[string]string {
	if err := validate.Struct(r); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return map[string]string{"request": err.Error()}
		}
		out := make(map[string]string, len(errs))
		for _, e := range errs {
			out[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return out
	}
	return nil
}

type DocumentResponse struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	Chunks     int    `json:"chunks"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type Source struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type AnswerResponse struct {
	Answer     string   `json:"answer"`
	Provenance string   `json:"provenance"`
	Label      string   `json:"label"`
	Sources    []Source `json:"sources"`
}

func newAnswerResponse(a domain.Answer) AnswerResponse {
	sources := make([]Source, len(a.Sources))
	for i, ch := range a.Sources {
		sources[i] = Source{Index: ch.Index, Text: ch.Text}
	}
	return AnswerResponse{
		Answer:     a.Text,
		Provenance: string(a.Provenance),
		Label:      a.Provenance.Label(),
		Sources:    sources,
	}
}
