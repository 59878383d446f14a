package api

import (
	"github.com/gofiber/fiber/v2"

	"docqa/internal/domain"
	"docqa/internal/logger"
)

// NewApp builds the fiber application with every route registered.
func NewApp(svc domain.QAService, log logger.ILogger, maxUploadBytes int) *fiber.App {
	var (
		app = fiber.New(fiber.Config{
			ErrorHandler:          NewErrorHandler(log),
			BodyLimit:             maxUploadBytes,
			DisableStartupMessage: true,
		})
		checkHandler    = NewCheckHandler()
		documentHandler = NewDocumentHandler(svc)
		check           = app.Group("/check")
		apiv1           = app.Group("/api/v1")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/documents", documentHandler.HandleUpload)
	apiv1.Get("/documents/:id/summary", documentHandler.HandleSummary)
	apiv1.Post("/documents/:id/questions", documentHandler.HandleQuestion)
	apiv1.Delete("/documents/:id", documentHandler.HandleDelete)

	return app
}
