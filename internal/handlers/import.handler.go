package handlers

import (
	"attendtrack/internal/app"
	importController "attendtrack/internal/controllers/import"
	"attendtrack/internal/handlers/middleware"
	"attendtrack/internal/logger"
	"attendtrack/internal/repositories"
	"errors"

	"github.com/gofiber/fiber/v2"
)

const defaultPerPage = 20

type ImportHandler struct {
	Handler
	controller *importController.ImportController
}

func NewImportHandler(app app.App, router fiber.Router) *ImportHandler {
	log := logger.New("handlers").File("import_handler")
	return &ImportHandler{
		controller: app.ImportController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ImportHandler) Register() {
	files := h.router.Group("/files", h.middleware.RequireIdentity)
	files.Post("/upload", h.upload)
	files.Get("/history", h.history)
	files.Get("/history/:id", h.getAudit)
}

func (h *ImportHandler) upload(c *fiber.Ctx) error {
	log := h.log.Function("upload")

	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "error", "error": "no uploader identity"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("upload without file", "error", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "error", "error": "multipart field 'file' is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Er("failed to open uploaded file", err, "filename", fileHeader.Filename)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "error", "error": "failed to read uploaded file"})
	}
	defer file.Close()

	result, err := h.controller.Import(c.UserContext(), fileHeader.Filename, file, &identity.ID)
	if err != nil {
		if importController.IsClientError(err) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"message": "error", "error": err.Error()})
		}
		log.Er("import failed", err, "filename", fileHeader.Filename)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "import failed"})
	}

	return c.JSON(result)
}

func (h *ImportHandler) history(c *fiber.Ctx) error {
	log := h.log.Function("history")

	page, err := h.controller.History(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("per_page", defaultPerPage))
	if err != nil {
		log.Er("failed to load history", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to load history"})
	}

	return c.JSON(page)
}

func (h *ImportHandler) getAudit(c *fiber.Ctx) error {
	log := h.log.Function("getAudit")

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "error", "error": "invalid audit id"})
	}

	audit, err := h.controller.GetAudit(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, repositories.ErrImportAuditNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"message": "error", "error": "import not found"})
		}
		log.Er("failed to load audit", err, "auditID", id)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to load import"})
	}

	return c.JSON(audit)
}
