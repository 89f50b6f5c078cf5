package ledger

import (
	"context"
	"errors"

	"clan-ledger/core/logger"
	"clan-ledger/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Trigger runs a scheduled job on demand.
type Trigger interface {
	Trigger(ctx context.Context, name string) error
}

// Handler handles HTTP requests for the ledger.
type Handler struct {
	jobs     *Jobs
	missions *MissionProcessor
	trigger  Trigger
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(jobs *Jobs, missions *MissionProcessor, trigger Trigger, logger *zap.Logger) *Handler {
	return &Handler{jobs: jobs, missions: missions, trigger: trigger, logger: logger}
}

// RegisterRoutes registers the ledger routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/ledger")
	group.Post("/ingest", h.HandleIngest)
	group.Post("/missions", h.HandleMission)
	group.Get("/status", h.HandleStatus)
}

// MissionRequest is the body of POST /ledger/missions.
type MissionRequest struct {
	MissionID    string   `json:"mission_id,omitempty"`
	Currency     string   `json:"currency"`
	Participants []string `json:"participants"`
	Outcome      string   `json:"outcome,omitempty"`
}

// HandleIngest runs an ingestion cycle now, under the same lock as the scheduled one.
// @Summary Trigger ingestion
// @Tags ledger
// @Produce json
// @Param feed query string false "donations (default) or mission"
// @Success 200 {object} Status
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /ledger/ingest [post]
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	job := JobDonations
	switch c.Query("feed", "donations") {
	case "donations", "ledger":
	case "mission", "missions":
		job = JobMission
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown feed"})
	}

	err := h.trigger.Trigger(c.Context(), job)
	if errors.Is(err, scheduler.ErrBusy) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Manual ingestion failed", zap.String("job", job), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.jobs.Status())
}

// HandleMission charges a manually reported mission.
// @Summary Record mission
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body MissionRequest true "Mission"
// @Success 200 {object} MissionResult
// @Failure 400 {object} map[string]string
// @Router /ledger/missions [post]
func (h *Handler) HandleMission(c *fiber.Ctx) error {
	var req MissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Participants) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no participants"})
	}
	if req.MissionID == "" {
		req.MissionID = "manual-" + uuid.NewString()
	}
	res, err := h.missions.Process(c.Context(), Mission{
		ID:           req.MissionID,
		Currency:     req.Currency,
		Participants: req.Participants,
		Source:       SourceManual,
		Outcome:      req.Outcome,
	})
	if errors.Is(err, ErrUnknownCurrency) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Mission processing failed", zap.String("mission_id", req.MissionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleStatus returns the outcome of the latest cycles.
// @Summary Ingestion status
// @Tags ledger
// @Produce json
// @Success 200 {object} Status
// @Router /ledger/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.jobs.Status())
}
