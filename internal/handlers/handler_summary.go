package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
)

// summaryHandler handles HTTP requests for the aggregate fund view.
type summaryHandler struct {
	summaryService portssvc.SummarySvcFacade
}

func newSummaryHandler(ss portssvc.SummarySvcFacade) *summaryHandler {
	return &summaryHandler{summaryService: ss}
}

// registerSummaryRoutes registers routes related to the fund summary.
func registerSummaryRoutes(rg *gin.RouterGroup, summaryService portssvc.SummarySvcFacade) {
	h := newSummaryHandler(summaryService)
	rg.GET("/summary", h.getSummary)
}

// getSummary godoc
// @Summary Get the aggregate fund summary
// @Description Returns balances, the live interest pool, the per-period ledger, and per-member standings
// @Tags summary
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Security BearerAuth
// @Router /summary [get]
func (h *summaryHandler) getSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.summaryService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "retrieve summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
