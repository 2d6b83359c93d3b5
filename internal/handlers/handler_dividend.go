package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// dividendHandler handles HTTP requests for dividend distributions.
type dividendHandler struct {
	dividendService portssvc.DividendSvcFacade
}

func newDividendHandler(ds portssvc.DividendSvcFacade) *dividendHandler {
	return &dividendHandler{dividendService: ds}
}

// registerDividendRoutes registers routes related to dividends.
func registerDividendRoutes(rg *gin.RouterGroup, dividendService portssvc.DividendSvcFacade) {
	h := newDividendHandler(dividendService)

	dividends := rg.Group("/dividends")
	{
		dividends.POST("", h.distribute)
		dividends.GET("", h.listDistributions)
	}
}

// distribute godoc
// @Summary Run a dividend distribution
// @Description Allocates the live interest pool across members by committed shares; forfeited members receive nothing but keep their shares in the denominator
// @Tags dividends
// @Accept json
// @Produce json
// @Param distribution body dto.DistributeDividendsRequest true "Distribution details"
// @Success 201 {object} dto.DistributionResponse
// @Failure 400 {object} map[string]string "Empty pool or no members"
// @Security BearerAuth
// @Router /dividends [post]
func (h *dividendHandler) distribute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.DistributeDividendsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for distribute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.dividendService.Distribute(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err, "distribute dividends")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDistributionResponse(created))
}

// listDistributions godoc
// @Summary List dividend distributions
// @Tags dividends
// @Produce json
// @Success 200 {array} dto.DistributionResponse
// @Security BearerAuth
// @Router /dividends [get]
func (h *dividendHandler) listDistributions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	distributions, err := h.dividendService.ListDistributions(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "list distributions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDistributionResponse(distributions))
}
