package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// StatsController serves platform counters and health
type StatsController struct {
	statsService services.StatsService
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// GetStats godoc
// @Summary Platform counters
// @Tags stats
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse}
// @Router /stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	stats, err := c.statsService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// Health godoc
// @Summary Dependency health
// @Tags stats
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *StatsController) Health(ctx *gin.Context) {
	health, ok := c.statsService.Health(ctx.Request.Context())
	if !ok {
		resp := dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, "One or more services are unavailable"))
		resp.Data = health
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(health))
}
