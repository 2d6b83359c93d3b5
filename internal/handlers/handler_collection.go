package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// collectionHandler handles HTTP requests for collection periods and payments.
type collectionHandler struct {
	collectionService portssvc.CollectionSvcFacade
}

func newCollectionHandler(cs portssvc.CollectionSvcFacade) *collectionHandler {
	return &collectionHandler{collectionService: cs}
}

// registerCollectionRoutes registers routes related to collection periods.
func registerCollectionRoutes(rg *gin.RouterGroup, collectionService portssvc.CollectionSvcFacade) {
	h := newCollectionHandler(collectionService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/payments", h.recordPayment)
		periods.PUT("/:periodID/payments/:memberID", h.updatePayment)
		periods.DELETE("/:periodID/payments/:memberID", h.removePayment)
	}
}

// createPeriod godoc
// @Summary Open a collection period
// @Description Creates a period keyed by its date; one period per date
// @Tags periods
// @Accept json
// @Produce json
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Period already exists"
// @Security BearerAuth
// @Router /periods [post]
func (h *collectionHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.collectionService.CreatePeriod(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err, "create period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(created))
}

// listPeriods godoc
// @Summary List collection periods
// @Description Returns all periods in date order
// @Tags periods
// @Produce json
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /periods [get]
func (h *collectionHandler) listPeriods(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	periods, err := h.collectionService.ListPeriods(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodResponse(periods))
}

// getPeriod godoc
// @Summary Get a collection period
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID (YYYY-MM-DD)"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /periods/{periodID} [get]
func (h *collectionHandler) getPeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.collectionService.GetPeriod(c.Request.Context(), userID, c.Param("periodID"))
	if err != nil {
		handleServiceError(c, err, "retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// recordPayment godoc
// @Summary Record a member payment
// @Description Records one contribution; a member can pay at most once per period
// @Tags periods
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID (YYYY-MM-DD)"
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Period or member not found"
// @Failure 409 {object} map[string]string "Member already paid this period"
// @Security BearerAuth
// @Router /periods/{periodID}/payments [post]
func (h *collectionHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.collectionService.RecordPayment(c.Request.Context(), userID, c.Param("periodID"), req)
	if err != nil {
		handleServiceError(c, err, "record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(updated))
}

// updatePayment godoc
// @Summary Update a member's payment
// @Tags periods
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID (YYYY-MM-DD)"
// @Param memberID path int true "Member ID"
// @Param payment body dto.UpdatePaymentRequest true "New amount"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /periods/{periodID}/payments/{memberID} [put]
func (h *collectionHandler) updatePayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.collectionService.UpdatePayment(c.Request.Context(), userID, c.Param("periodID"), memberID, req)
	if err != nil {
		handleServiceError(c, err, "update payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(updated))
}

// removePayment godoc
// @Summary Remove a member's payment
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID (YYYY-MM-DD)"
// @Param memberID path int true "Member ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /periods/{periodID}/payments/{memberID} [delete]
func (h *collectionHandler) removePayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	updated, err := h.collectionService.RemovePayment(c.Request.Context(), userID, c.Param("periodID"), memberID)
	if err != nil {
		handleServiceError(c, err, "remove payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(updated))
}
