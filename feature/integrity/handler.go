package integrity

import (
	"errors"

	"clan-ledger/core/logger"

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
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/archive", h.HandleArchiveCheck)
	group.Get("/aliases", h.HandleAliasCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema, archive and alias checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]any)

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if archive, err := h.service.CheckArchive(ctx); err != nil {
		report["archive"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["archive"] = archive
	}

	if aliases, err := h.service.CheckAliases(ctx); err != nil {
		report["aliases"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["aliases"] = aliases
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Schema
// @Description Checks that every table has the columns the models expect.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleArchiveCheck checks and optionally creates the archive bucket.
// @Summary Check Feed Archive
// @Description Checks that the feed archive bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 409 {object} map[string]string "Archive disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckArchive(c.Context())
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if fix && !report.Exists {
		l.Info("Attempting to create archive bucket")
		err := h.service.FixArchive(c.Context())
		if errors.Is(err, ErrArchiveDisabled) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create archive bucket",
				"details": err.Error(),
			})
		}
		report.Exists = true
	}
	return c.JSON(report)
}

// HandleAliasCheck reports economy records stored under stale aliases.
// @Summary Check Alias Records
// @Description Lists economy records whose key is a former username of a linked player.
// @Tags integrity
// @Produce json
// @Success 200 {object} AliasReport "Alias Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/aliases [get]
func (h *Handler) HandleAliasCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckAliases(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Alias check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
