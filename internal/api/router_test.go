package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
	"docqa/internal/logger"
)

type fakeService struct {
	loadErr   error
	askErr    error
	answer    domain.Answer
	summary   string
	known     map[string]bool
	question  string
	uploadRaw []byte
}

func (f *fakeService) LoadDocument(_ context.Context, name string, data []byte) (domain.Document, int, error) {
	f.uploadRaw = data
	if f.loadErr != nil {
		return domain.Document{}, 0, f.loadErr
	}
	return domain.Document{ID: "doc-1", Name: name, Text: string(data), Pages: 1}, 2, nil
}

func (f *fakeService) Ask(_ context.Context, id, question string) (domain.Answer, error) {
	f.question = question
	if !f.known[id] {
		return domain.Answer{}, domain.ErrDocumentNotFound
	}
	return f.answer, f.askErr
}

func (f *fakeService) Summarize(_ context.Context, id string) (string, error) {
	if !f.known[id] {
		return "", domain.ErrDocumentNotFound
	}
	return f.summary, nil
}

func (f *fakeService) Forget(id string) bool {
	ok := f.known[id]
	delete(f.known, id)
	return ok
}

func newTestApp(svc *fakeService) *fiberApp {
	return &fiberApp{app: NewApp(svc, logger.NewNopLogger(), 1<<20)}
}

type fiberApp struct {
	app *fiber.App
}

func (a *fiberApp) do(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func uploadRequest(t *testing.T, field, name, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func questionRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+id+"/questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthy(t *testing.T) {
	app := newTestApp(&fakeService{})
	status, body := app.do(t, httptest.NewRequest(http.MethodGet, "/check/healthy", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["result"])
}

func TestUpload(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	status, body := app.do(t, uploadRequest(t, "file", "notes.txt", "hello world"))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "doc-1", body["document_id"])
	assert.Equal(t, "notes.txt", body["name"])
	assert.EqualValues(t, 11, body["characters"])
	assert.EqualValues(t, 2, body["chunks"])
	assert.Equal(t, []byte("hello world"), svc.uploadRaw)
}

func TestUpload_Errors(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		app := newTestApp(&fakeService{})
		status, _ := app.do(t, uploadRequest(t, "other", "a.txt", "x"))
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("no readable text", func(t *testing.T) {
		app := newTestApp(&fakeService{loadErr: domain.ErrExtractionEmpty})
		status, body := app.do(t, uploadRequest(t, "file", "scan.pdf", "%PDF-"))
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, domain.ErrExtractionEmpty.Error(), body["error"])
	})

	t.Run("unexpected failure", func(t *testing.T) {
		app := newTestApp(&fakeService{loadErr: errors.New("disk on fire")})
		status, body := app.do(t, uploadRequest(t, "file", "a.txt", "x"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal server error", body["error"])
	})
}

func TestQuestion(t *testing.T) {
	svc := &fakeService{
		known: map[string]bool{"doc-1": true},
		answer: domain.Answer{
			Text:       "The sky is blue.",
			Provenance: domain.FromDocument,
			Sources:    []domain.Chunk{{Index: 0, Text: "The sky is blue."}},
		},
	}
	app := newTestApp(svc)

	status, body := app.do(t, questionRequest("doc-1", `{"question":"  What color is the sky?  "}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "What color is the sky?", svc.question)
	assert.Equal(t, "The sky is blue.", body["answer"])
	assert.Equal(t, "from_document", body["provenance"])
	assert.Equal(t, "From Document", body["label"])
	require.Len(t, body["sources"], 1)
}

func TestQuestion_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		body   string
		askErr error
		want   int
	}{
		{"bad body", "doc-1", `{"question":`, nil, http.StatusBadRequest},
		{"blank question", "doc-1", `{"question":"   "}`, nil, http.StatusUnprocessableEntity},
		{"unknown document", "nope", `{"question":"hi"}`, nil, http.StatusNotFound},
		{
			"model unavailable", "doc-1", `{"question":"hi"}`,
			domain.NewCollaboratorError("sufficiency", errors.New("timeout")),
			http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{known: map[string]bool{"doc-1": true}, askErr: tt.askErr}
			status, _ := newTestApp(svc).do(t, questionRequest(tt.id, tt.body))
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestQuestion_ValidationErrorBody(t *testing.T) {
	app := newTestApp(&fakeService{known: map[string]bool{"doc-1": true}})
	status, body := app.do(t, questionRequest("doc-1", `{}`))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]interface{}{"Question": "failed on 'required' tag"}, body["errors"])
}

func TestSummaryAndDelete(t *testing.T) {
	svc := &fakeService{known: map[string]bool{"doc-1": true}, summary: "A short summary."}
	app := newTestApp(svc)

	status, body := app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/summary", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A short summary.", body["summary"])

	status, _ = app.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil))
	assert.Equal(t, http.StatusNoContent, status)

	status, body = app.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "document with doc-1 not found", body["error"])

	status, _ = app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/summary", nil))
	assert.Equal(t, http.StatusNotFound, status)
}
