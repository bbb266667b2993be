package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/types"
)

// LineupOptimizer runs one full optimization request.
type LineupOptimizer interface {
	Optimize(ctx context.Context, settings types.LeagueSettings, excludeIDs, forceIDs []int64) (*types.LineupSolution, error)
}

// OptimizeRequest is the optimize endpoint payload.
type OptimizeRequest struct {
	Settings       types.LeagueSettings `json:"settings" binding:"required"`
	ExcludePlayers []int64              `json:"exclude_players"`
	ForcePlayers   []int64              `json:"force_players"`
}

// ErrorResponse is the error payload shape shared by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// OptimizationHandler handles lineup optimization endpoints.
type OptimizationHandler struct {
	service LineupOptimizer
	logger  *logrus.Logger
}

// NewOptimizationHandler creates a new optimization handler.
func NewOptimizationHandler(service LineupOptimizer, logger *logrus.Logger) *OptimizationHandler {
	return &OptimizationHandler{
		service: service,
		logger:  logger,
	}
}

// OptimizeLineup generates the optimal lineup for the supplied league
// settings, with optional force/exclude player overrides.
func (h *OptimizationHandler) OptimizeLineup(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	solution, err := h.service.Optimize(c.Request.Context(), req.Settings, req.ExcludePlayers, req.ForcePlayers)
	if err != nil {
		status, code := classifyError(err)
		h.logger.WithError(err).WithField("code", code).Warn("Lineup optimization failed")
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	c.JSON(http.StatusOK, solution)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrUnresolvedReference):
		return http.StatusBadRequest, "UNRESOLVED_REFERENCE"
	case errors.Is(err, types.ErrInfeasibleRoster):
		return http.StatusConflict, "INFEASIBLE_ROSTER"
	case errors.Is(err, types.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_DATA"
	case errors.Is(err, types.ErrNoScheduledGames):
		return http.StatusUnprocessableEntity, "NO_SCHEDULED_GAMES"
	}
	return http.StatusInternalServerError, "OPTIMIZATION_FAILED"
}
