package seminar

import (
	"errors"
	"strconv"

	"seminar-sync/core/logger"
	"seminar-sync/core/reconcile"
	"seminar-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for seminars and sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the seminar routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/seminars")
	group.Get("/", h.HandleList)
	group.Get("/calendar.ics", h.HandleCalendar)

	sync := app.Group("/sync")
	sync.Post("/", h.HandleSync)
	sync.Get("/plan", h.HandlePlan)
	sync.Get("/runs", h.HandleRuns)
}

// HandleList lists stored seminars.
// @Summary List Seminars
// @Description Returns stored seminars in slot order. Soft-deleted rows are hidden unless include_deleted is set.
// @Tags seminars
// @Produce json
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Param include_deleted query boolean false "Include soft-deleted rows"
// @Success 200 {array} reconcile.PersistedEvent
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /seminars [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	filter := ListFilter{IncludeDeleted: utils.ToBool(c.Query("include_deleted"))}
	for param, dst := range map[string]**reconcile.Date{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := reconcile.ParseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		*dst = &d
	}

	events, err := h.service.List(c.Context(), filter)
	if err != nil {
		l.Error("Failed to list seminars", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

// HandleCalendar serves the live seminars as an iCalendar feed.
// @Summary Seminar Calendar
// @Description Returns the live seminars as text/calendar for subscription.
// @Tags seminars
// @Produce text/calendar
// @Success 200 {string} string "iCalendar feed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /seminars/calendar.ics [get]
func (h *Handler) HandleCalendar(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	feed, err := h.service.Calendar(c.Context())
	if err != nil {
		l.Error("Failed to build calendar", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.SendString(feed)
}

// HandleSync runs one reconciliation.
// @Summary Run Sync
// @Description Scrapes the schedule page and reconciles the seminars table. Concurrent requests share one run.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.Result
// @Failure 500 {object} reconcile.Result
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering sync")

	res := h.service.Sync(c.Context(), TriggerHTTP)
	if !res.Success {
		l.Warn("Sync failed", zap.String("run_id", res.RunID), zap.String("error", res.ErrorMessage()))
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return c.JSON(res)
}

// HandlePlan previews a reconciliation.
// @Summary Preview Sync
// @Description Computes inserts, updates and removals without writing anything.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.Plan
// @Failure 422 {object} map[string]string "Snapshot below threshold"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.Context())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, reconcile.ErrEmptySnapshot) {
			status = fiber.StatusUnprocessableEntity
		}
		l.Error("Failed to compute plan", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandleRuns lists recent runs.
// @Summary Recent Runs
// @Description Returns the newest entries of the run log.
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum rows (default 20)"
// @Success 200 {array} RunLog
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	runs, err := h.service.Runs(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}
