package economy

import (
	"errors"

	"clan-ledger/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for balances.
type Handler struct {
	store *Store
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the economy routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/economy")
	group.Get("/balances", h.HandleListBalances)
	group.Get("/balances/:username", h.HandleGetBalance)
	group.Post("/adjust", h.HandleAdjust)
}

// BalanceResponse is a record with its achievements.
type BalanceResponse struct {
	Username     string   `json:"username"`
	Gold         int64    `json:"gold"`
	Gems         int64    `json:"gems"`
	GoldDonated  int64    `json:"gold_donated"`
	GemsDonated  int64    `json:"gems_donated"`
	RewardPoints int64    `json:"reward_points"`
	Achievements []string `json:"achievements"`
}

// AdjustRequest is the body of POST /economy/adjust.
type AdjustRequest struct {
	Username string `json:"username"`
	Gold     int64  `json:"gold"`
	Gems     int64  `json:"gems"`
	Reason   string `json:"reason"`
}

// HandleListBalances lists every economy record.
// @Summary List balances
// @Tags economy
// @Produce json
// @Success 200 {array} models.Record
// @Failure 500 {object} map[string]string
// @Router /economy/balances [get]
func (h *Handler) HandleListBalances(c *fiber.Ctx) error {
	recs, err := h.store.List(c.Context())
	if err != nil {
		logger.WithRayID(h.store.logger, c).Error("Listing balances failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(recs)
}

// HandleGetBalance returns one balance with its achievements.
// @Summary Get balance
// @Tags economy
// @Produce json
// @Param username path string true "Canonical game username"
// @Success 200 {object} BalanceResponse
// @Failure 404 {object} map[string]string
// @Router /economy/balances/{username} [get]
func (h *Handler) HandleGetBalance(c *fiber.Ctx) error {
	username := c.Params("username")
	rec, err := h.store.Get(c.Context(), username)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.store.logger, c).Error("Loading balance failed", zap.String("username", username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	codes, err := h.store.Achievements(c.Context(), username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if codes == nil {
		codes = []string{}
	}
	return c.JSON(BalanceResponse{
		Username:     rec.Username,
		Gold:         rec.Gold,
		Gems:         rec.Gems,
		GoldDonated:  rec.GoldDonated,
		GemsDonated:  rec.GemsDonated,
		RewardPoints: rec.RewardPoints,
		Achievements: codes,
	})
}

// HandleAdjust applies an additive manual correction.
// @Summary Adjust balance
// @Tags economy
// @Accept json
// @Produce json
// @Param body body AdjustRequest true "Adjustment"
// @Success 200 {object} models.Record
// @Failure 400 {object} map[string]string
// @Router /economy/adjust [post]
func (h *Handler) HandleAdjust(c *fiber.Ctx) error {
	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if Key(req.Username) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrEmptyUsername.Error()})
	}
	l := logger.WithRayID(h.store.logger, c)

	rec, err := h.store.Adjust(c.Context(), req.Username, Delta{Gold: req.Gold, Gems: req.Gems})
	if err != nil {
		l.Error("Balance adjustment failed", zap.String("username", req.Username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Balance adjusted",
		zap.String("username", rec.Username),
		zap.Int64("gold_delta", req.Gold),
		zap.Int64("gems_delta", req.Gems),
		zap.String("reason", req.Reason),
	)
	return c.JSON(rec)
}
