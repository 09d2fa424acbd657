package integrity

import (
	"seminar-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/integrity", h.HandleIntegrityCheck)
}

// HandleIntegrityCheck runs all integrity checks.
// @Summary Run Integrity Checks
// @Description Checks the database connection, the required table columns and the archive bucket.
// @Tags integrity
// @Produce json
// @Success 200 {object} integrity.Report
// @Failure 503 {object} integrity.Report
// @Security ApiKeyAuth
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Running integrity checks")

	report := h.service.Check(c.Context())
	if !report.Healthy {
		l.Warn("Integrity checks failed", zap.Bool("healthy", report.Healthy))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
