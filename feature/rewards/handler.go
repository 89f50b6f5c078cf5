package rewards

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"clan-ledger/core/logger"
	"clan-ledger/core/utils"
	"clan-ledger/feature/economy"
	"clan-ledger/feature/identity"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Resolver maps a typed username to its canonical identity.
type Resolver interface {
	Resolve(ctx context.Context, raw string) identity.Identity
}

// Handler handles HTTP requests for rewards.
type Handler struct {
	engine   *Engine
	repo     *Repository
	resolver Resolver
	limit    int
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *Engine, repo *Repository, resolver Resolver, cfg Config, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, repo: repo, resolver: resolver, limit: cfg.LeaderboardLimit, logger: logger}
}

// RegisterRoutes registers the rewards routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/rewards")
	group.Post("/award", h.HandleAward)
	group.Get("/leaderboard", h.HandleLeaderboard)
	group.Get("/progress/:username", h.HandleProgress)
	group.Get("/catalog", h.HandleCatalog)
}

// AwardRequest is the body of POST /rewards/award. Amount accepts numbers and
// strings such as "2.5k".
type AwardRequest struct {
	Username       string          `json:"username"`
	PointType      string          `json:"point_type"`
	Amount         json.RawMessage `json:"amount,omitempty" swaggertype:"string"`
	Source         string          `json:"source,omitempty"`
	Note           string          `json:"note,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// CatalogResponse lists point types and achievements.
type CatalogResponse struct {
	PointTypes   []PointType   `json:"point_types"`
	Achievements []Achievement `json:"achievements"`
}

func parseAmount(raw json.RawMessage, allowNegative bool) (int64, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}
	return utils.ParseAmount(text, allowNegative)
}

// HandleAward grants points to a player.
// @Summary Award points
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body AwardRequest true "Award request"
// @Success 200 {object} AwardResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /rewards/award [post]
func (h *Handler) HandleAward(c *fiber.Ctx) error {
	var req AwardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	pt, ok := LookupPointType(req.PointType)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrUnknownPointType.Error() + " " + req.PointType})
	}
	amount, ok := parseAmount(req.Amount, pt.AllowNegative)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount"})
	}

	id := h.resolver.Resolve(c.Context(), req.Username)
	if id.Err != nil {
		logger.WithRayID(h.logger, c).Error("Resolving username failed", zap.String("input", req.Username), zap.Error(id.Err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": id.Err.Error()})
	}
	if !id.OK() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": economy.ErrEmptyUsername.Error()})
	}

	res, err := h.engine.Award(c.Context(), id.Resolved, pt.Code, amount, Metadata{
		IdempotencyKey: req.IdempotencyKey,
		Source:         req.Source,
		Note:           req.Note,
	})
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Award failed", zap.String("username", id.Resolved), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleLeaderboard ranks players.
// @Summary Leaderboard
// @Tags rewards
// @Produce json
// @Param period query string false "all, day, week or month"
// @Param limit query int false "Maximum entries"
// @Success 200 {array} LeaderboardEntry
// @Router /rewards/leaderboard [get]
func (h *Handler) HandleLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.limit)
	entries, err := h.repo.Leaderboard(c.Context(), c.Query("period"), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Leaderboard failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	return c.JSON(entries)
}

// HandleProgress returns a player's reward progress.
// @Summary Player progress
// @Tags rewards
// @Produce json
// @Param username path string true "Username, aliases accepted"
// @Param period query string false "all, day, week or month"
// @Success 200 {object} Progress
// @Failure 404 {object} map[string]string
// @Router /rewards/progress/{username} [get]
func (h *Handler) HandleProgress(c *fiber.Ctx) error {
	id := h.resolver.Resolve(c.Context(), c.Params("username"))
	if id.Err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": id.Err.Error()})
	}
	p, err := h.repo.Progress(c.Context(), id.Resolved, c.Query("period"), c.QueryInt("history", 5))
	if errors.Is(err, economy.ErrNotFound) || errors.Is(err, economy.ErrEmptyUsername) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": economy.ErrNotFound.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Progress failed", zap.String("username", id.Resolved), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(p)
}

// HandleCatalog lists point types and achievements.
// @Summary Reward catalogue
// @Tags rewards
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /rewards/catalog [get]
func (h *Handler) HandleCatalog(c *fiber.Ctx) error {
	return c.JSON(CatalogResponse{PointTypes: PointTypes(), Achievements: Achievements()})
}
