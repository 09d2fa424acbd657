package archive

import (
	"strconv"

	"seminar-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes archived run reports.
type Handler struct {
	archiver *Archiver
}

// NewHandler creates a new HTTP handler.
func NewHandler(archiver *Archiver) *Handler {
	return &Handler{archiver: archiver}
}

// RegisterRoutes registers the archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/archive")
	group.Get("/reports", h.HandleListReports)
	group.Get("/reports/:date/:run", h.HandleGetReport)
	group.Post("/prune", h.HandlePrune)
}

// HandleListReports lists archived reports.
// @Summary List Archived Reports
// @Description Lists run reports stored in the archive bucket, newest first.
// @Tags archive
// @Produce json
// @Param limit query int false "Maximum reports (default 50)"
// @Success 200 {array} ReportInfo
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /archive/reports [get]
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.archiver.logger, c)

	limit := 50
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}
	reports, err := h.archiver.ListReports(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reports)
}

// HandleGetReport returns one archived report.
// @Summary Get Archived Report
// @Tags archive
// @Produce json
// @Param date path string true "Run date (YYYY-MM-DD)"
// @Param run path string true "Run ID"
// @Success 200 {object} Report
// @Failure 404 {object} map[string]string "Not Found"
// @Router /archive/reports/{date}/{run} [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.archiver.logger, c)

	report, err := h.archiver.LoadReport(c.Context(), c.Params("date"), c.Params("run"))
	if err != nil {
		l.Warn("Report not available", zap.String("run", c.Params("run")), zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandlePrune removes reports past the retention window.
// @Summary Prune Archive
// @Description Removes archived pages and reports older than storage.retention_days.
// @Tags archive
// @Produce json
// @Success 200 {object} map[string]int "Removed objects"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /archive/prune [post]
func (h *Handler) HandlePrune(c *fiber.Ctx) error {
	l := logger.WithRayID(h.archiver.logger, c)

	removed, err := h.archiver.Prune(c.Context())
	if err != nil {
		l.Error("Prune failed", zap.Int("removed", removed), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "removed": removed})
	}
	return c.JSON(fiber.Map{"removed": removed})
}
