package api

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docqa/internal/domain"
)

const module = "api"

type DocumentHandler struct {
	svc domain.QAService
}

func NewDocumentHandler(svc domain.QAService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrMissingFile()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	doc, chunks, err := h.svc.LoadDocument(c.UserContext(), fileHeader.Filename, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(DocumentResponse{
		DocumentID: doc.ID,
		Name:       doc.Name,
		Pages:      doc.Pages,
		Characters: len(doc.Text),
		Chunks:     chunks,
	})
}

func (h *DocumentHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.svc.Summarize(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(SummaryResponse{Summary: summary})
}

func (h *DocumentHandler) HandleQuestion(c *fiber.Ctx) error {
	var params QuestionRequest
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	params.Question = strings.TrimSpace(params.Question)
	if errors := params.Validate(); len(errors) > 0 {
		return NewValidationError(errors)
	}

	answer, err := h.svc.Ask(c.UserContext(), c.Params("id"), params.Question)
	if err != nil {
		return err
	}
	return c.JSON(newAnswerResponse(answer))
}

func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.svc.Forget(id) {
		return ErrNotFound(id, "document")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
