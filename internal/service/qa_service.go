package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa/internal/domain"
	"docqa/internal/logger"
	"docqa/internal/retrieval"
	"docqa/internal/session"
	"docqa/internal/tokens"
)

const module = "qa_service"

type QAServiceImpl struct {
	extractor domain.Extractor
	chunker   domain.Chunker
	ranker    domain.Ranker
	oracle    domain.SufficiencyOracle
	generator domain.AnswerGenerator
	sessions  *session.Store
	topK      int
	log       logger.ILogger
	tokens    *tokens.Counter
	observer  Observer
	newID     func() string
}

var _ domain.QAService = (*QAServiceImpl)(nil)

// Option customizes a QAServiceImpl.
type Option func(*QAServiceImpl)

// WithObserver registers a stage observer.
func WithObserver(o Observer) Option {
	return func(s *QAServiceImpl) { s.observer = o }
}

// WithLogger replaces the default no-op logger.
func WithLogger(l logger.ILogger) Option {
	return func(s *QAServiceImpl) { s.log = l }
}

// WithTokenCounter enables prompt size logging.
func WithTokenCounter(c *tokens.Counter) Option {
	return func(s *QAServiceImpl) { s.tokens = c }
}

// WithIDGenerator overrides how document IDs are minted.
func WithIDGenerator(f func() string) Option {
	return func(s *QAServiceImpl) { s.newID = f }
}

func NewQAService(
	extractor domain.Extractor,
	chunker domain.Chunker,
	ranker domain.Ranker,
	oracle domain.SufficiencyOracle,
	generator domain.AnswerGenerator,
	sessions *session.Store,
	topK int,
	opts ...Option,
) *QAServiceImpl {
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}
	s := &QAServiceImpl{
		extractor: extractor,
		chunker:   chunker,
		ranker:    ranker,
		oracle:    oracle,
		generator: generator,
		sessions:  sessions,
		topK:      topK,
		log:       logger.NewNopLogger(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QAServiceImpl) notify(documentID string, stage Stage) {
	if s.observer != nil {
		s.observer(documentID, stage)
	}
}

// LoadDocument extracts the upload, chunks it once and stores the session.
// It returns the document and its chunk count. Extraction failures stop before
// chunking.
func (s *QAServiceImpl) LoadDocument(ctx context.Context, name string, data []byte) (domain.Document, int, error) {
	ext, err := s.extractor.Extract(name, data)
	if err != nil {
		s.log.Warn(module, "extraction failed", map[string]interface{}{"name": name, "error": err})
		return domain.Document{}, 0, fmt.Errorf("extract %s: %w", name, err)
	}
	doc := domain.Document{ID: s.newID(), Name: name, Text: ext.Text, Pages: ext.Pages}

	s.notify(doc.ID, StageChunking)
	chunks := s.chunker.Chunk(doc.Text)
	s.sessions.Save(&session.Session{Document: doc, Chunks: chunks, CreatedAt: time.Now()})
	s.notify(doc.ID, StageIdle)

	s.log.Info(module, "document loaded", map[string]interface{}{
		"document_id": doc.ID,
		"name":        name,
		"pages":       doc.Pages,
		"characters":  len(doc.Text),
		"chunks":      len(chunks),
	})
	return doc, len(chunks), nil
}

func (s *QAServiceImpl) session(documentID string) (*session.Session, error) {
	sess, ok := s.sessions.Get(documentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
	}
	return sess, nil
}

// Ask answers one question against a loaded document. When no chunk shares a
// term with the question the sufficiency check is skipped.
func (s *QAServiceImpl) Ask(ctx context.Context, documentID, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}
	sess, err := s.session(documentID)
	if err != nil {
		return domain.Answer{}, err
	}

	s.notify(documentID, StageRetrieving)
	relevant := s.ranker.Retrieve(sess.Chunks, question, s.topK)
	passages := retrieval.BuildContext(relevant)

	sufficient := false
	if len(relevant) > 0 {
		s.notify(documentID, StageCheckingSufficiency)
		sufficient, err = s.oracle.IsSufficient(ctx, passages, question)
		if err != nil {
			s.fail(documentID, "sufficiency check failed", err)
			return domain.Answer{}, err
		}
	}

	details := map[string]interface{}{
		"document_id": documentID,
		"relevant":    len(relevant),
		"sufficient":  sufficient,
	}
	var ans domain.Answer
	if sufficient {
		s.notify(documentID, StageGeneratingDocumentAnswer)
		s.countPrompt(details, passages+question)
		text, err := s.generator.DocumentAnswer(ctx, passages, question)
		if err != nil {
			s.fail(documentID, "document answer failed", err)
			return domain.Answer{}, err
		}
		ans = domain.Answer{Text: text, Provenance: domain.FromDocument, Sources: relevant}
	} else {
		s.notify(documentID, StageGeneratingGeneralAnswer)
		s.countPrompt(details, question)
		text, err := s.generator.GeneralAnswer(ctx, question)
		if err != nil {
			s.fail(documentID, "general answer failed", err)
			return domain.Answer{}, err
		}
		ans = domain.Answer{Text: text, Provenance: domain.GeneralKnowledge}
	}
	s.notify(documentID, StageDone)

	details["provenance"] = string(ans.Provenance)
	s.log.Info(module, "question answered", details)
	return ans, nil
}

// Summarize asks the model for a summary of the document's leading text.
func (s *QAServiceImpl) Summarize(ctx context.Context, documentID string) (string, error) {
	sess, err := s.session(documentID)
	if err != nil {
		return "", err
	}
	summary, err := s.generator.Summary(ctx, sess.Document.Text)
	if err != nil {
		s.fail(documentID, "summary failed", err)
		return "", err
	}
	return summary, nil
}

// Forget drops the document session.
func (s *QAServiceImpl) Forget(documentID string) bool {
	return s.sessions.Delete(documentID)
}

func (s *QAServiceImpl) fail(documentID, message string, err error) {
	s.log.Error(module, message, map[string]interface{}{"document_id": documentID, "error": err})
}

func (s *QAServiceImpl) countPrompt(details map[string]interface{}, text string) {
	if s.tokens == nil {
		return
	}
	n, exact := s.tokens.Count(text)
	details["input_tokens"] = n
	details["input_tokens_exact"] = exact
}
