package identity

import (
	"errors"
	"strconv"

	"clan-ledger/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes identity operations over HTTP.
type Handler struct {
	resolver *Resolver
	linker   *Linker
	verifier *Verifier
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. verifier may be nil when no directory is configured.
func NewHandler(resolver *Resolver, linker *Linker, verifier *Verifier, logger *zap.Logger) *Handler {
	return &Handler{resolver: resolver, linker: linker, verifier: verifier, logger: logger}
}

// RegisterRoutes registers the identity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/identity")
	group.Get("/resolve", h.HandleResolve)
	group.Get("/profiles/:chatId", h.HandleGetProfile)
	group.Post("/link", h.HandleLink)
	group.Post("/verification/start", h.HandleStartVerification)
	group.Post("/verification/confirm", h.HandleConfirmVerification)
}

// VerificationStartRequest is the body of POST /identity/verification/start.
type VerificationStartRequest struct {
	ChatID       int64  `json:"chat_id"`
	GameUsername string `json:"game_username"`
}

// VerificationConfirmRequest is the body of POST /identity/verification/confirm.
type VerificationConfirmRequest struct {
	ChatID int64 `json:"chat_id"`
}

// HandleResolve resolves a username to its canonical identity.
// @Summary Resolve a username
// @Tags identity
// @Produce json
// @Param username query string true "Username as typed"
// @Success 200 {object} Identity
// @Failure 500 {object} map[string]string
// @Router /identity/resolve [get]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	id := h.resolver.Resolve(c.Context(), c.Query("username"))
	if id.Err != nil {
		logger.WithRayID(h.logger, c).Error("Resolving username failed", zap.String("input", id.Input), zap.Error(id.Err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": id.Err.Error()})
	}
	return c.JSON(id)
}

// HandleGetProfile returns the profile bound to a chat account.
// @Summary Get profile
// @Tags identity
// @Produce json
// @Param chatId path int true "Chat user id"
// @Success 200 {object} ProfileSnapshot
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /identity/profiles/{chatId} [get]
func (h *Handler) HandleGetProfile(c *fiber.Ctx) error {
	chatID, err := strconv.ParseInt(c.Params("chatId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chat id"})
	}
	p, err := h.linker.store.ByChatID(c.Context(), chatID)
	if err == nil {
		var snap *ProfileSnapshot
		if snap, err = h.linker.Snapshot(c.Context(), p.ID); err == nil {
			return c.JSON(snap)
		}
	}
	if errors.Is(err, ErrProfileNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.logger, c).Error("Loading profile failed", zap.Int64("chat_id", chatID), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// HandleLink binds a chat account to a game username.
// @Summary Link profile
// @Tags identity
// @Accept json
// @Produce json
// @Param request body LinkRequest true "Link request"
// @Success 200 {object} LinkResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} LinkResult
// @Router /identity/link [post]
func (h *Handler) HandleLink(c *fiber.Ctx) error {
	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	res, err := h.linker.Link(c.Context(), req)
	if errors.Is(err, ErrInvalidUsername) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Linking profile failed", zap.Int64("chat_id", req.ChatID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if res.Conflict {
		return c.Status(fiber.StatusConflict).JSON(res)
	}
	return c.JSON(res)
}

// HandleStartVerification issues a verification code.
// @Summary Start verification
// @Tags identity
// @Accept json
// @Produce json
// @Param request body VerificationStartRequest true "Start request"
// @Success 200 {object} Challenge
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /identity/verification/start [post]
func (h *Handler) HandleStartVerification(c *fiber.Ctx) error {
	if h.verifier == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "player directory not configured"})
	}
	var req VerificationStartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	ch, err := h.verifier.Start(c.Context(), req.ChatID, req.GameUsername)
	if err != nil {
		return h.verificationError(c, err)
	}
	return c.JSON(ch)
}

// HandleConfirmVerification checks the code and links the profile.
// @Summary Confirm verification
// @Tags identity
// @Accept json
// @Produce json
// @Param request body VerificationConfirmRequest true "Confirm request"
// @Success 200 {object} LinkResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} LinkResult
// @Failure 410 {object} map[string]string
// @Router /identity/verification/confirm [post]
func (h *Handler) HandleConfirmVerification(c *fiber.Ctx) error {
	if h.verifier == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "player directory not configured"})
	}
	var req VerificationConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	res, err := h.verifier.Confirm(c.Context(), req.ChatID)
	if err != nil {
		return h.verificationError(c, err)
	}
	if res.Conflict {
		return c.Status(fiber.StatusConflict).JSON(res)
	}
	return c.JSON(res)
}

func (h *Handler) verificationError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrCodeMismatch):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrNoPendingVerification):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrNotInClan):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrVerificationExpired):
		status = fiber.StatusGone
	default:
		logger.WithRayID(h.logger, c).Error("Verification failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
