package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/config"
	"github.com/stitts-dev/puckcap/internal/types"
)

// SettingsStore persists league settings.
type SettingsStore interface {
	SavedSettings(ctx context.Context) (*types.LeagueSettings, error)
	SaveSettings(ctx context.Context, settings types.LeagueSettings) error
}

// SettingsHandler handles league settings endpoints.
type SettingsHandler struct {
	store  SettingsStore
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(store SettingsStore, cfg *config.Config, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// GetSettings returns the persisted league settings, falling back to the
// configured defaults when nothing has been saved yet.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	saved, err := h.store.SavedSettings(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load settings",
			Code:  "SETTINGS_LOAD_FAILED",
		})
		return
	}
	if saved == nil {
		c.JSON(http.StatusOK, h.cfg.DefaultSettings())
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetDefaultSettings returns the configured league defaults.
func (h *SettingsHandler) GetDefaultSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.DefaultSettings())
}

// SaveSettings persists league settings for later requests.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var settings types.LeagueSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := h.store.SaveSettings(c.Request.Context(), settings); err != nil {
		h.logger.WithError(err).Error("Failed to save settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to save settings",
			Code:  "SETTINGS_SAVE_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}
