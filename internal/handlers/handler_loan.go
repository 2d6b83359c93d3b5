package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// loanHandler handles HTTP requests for the loan lifecycle.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// registerLoanRoutes registers routes related to loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.requestLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:loanID", h.getLoan)
		loans.DELETE("/:loanID", h.deleteLoan)
		loans.POST("/:loanID/approve", h.approveLoan)
		loans.POST("/:loanID/reject", h.rejectLoan)
		loans.POST("/:loanID/repayments", h.addRepayment)
		loans.GET("/:loanID/repayments", h.listRepayments)
		loans.DELETE("/:loanID/repayments/:repaymentID", h.removeRepayment)
		loans.GET("/:loanID/penalties", h.listPenalties)
	}
	rg.POST("/penalties/assess", h.assessPenalties)
}

// requestLoan godoc
// @Summary File a loan application
// @Description Creates a PENDING loan for a member
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.RequestLoanRequest true "Loan application"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) requestLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.RequestLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for requestLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.loanService.RequestLoan(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err, "request loan")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLoanResponse(created, nil, nil))
}

// listLoans godoc
// @Summary List all loans
// @Description Returns every loan with derived valuation figures
// @Tags loans
// @Produce json
// @Success 200 {array} dto.LoanResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	loans, err := h.loanService.ListLoans(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "list loans")
		return
	}

	// Repayments and penalties feed the derived fields on each response.
	var repayments []domain.Repayment
	var penalties []domain.Penalty
	for _, loan := range loans {
		lr, err := h.loanService.ListRepayments(c.Request.Context(), userID, loan.LoanID)
		if err != nil {
			handleServiceError(c, err, "list loans")
			return
		}
		lp, err := h.loanService.ListPenalties(c.Request.Context(), userID, loan.LoanID)
		if err != nil {
			handleServiceError(c, err, "list loans")
			return
		}
		repayments = append(repayments, lr...)
		penalties = append(penalties, lp...)
	}
	c.JSON(http.StatusOK, dto.ToListLoanResponse(loans, repayments, penalties))
}

// getLoan godoc
// @Summary Get a loan by id
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	loanID := c.Param("loanID")

	loan, err := h.loanService.GetLoan(c.Request.Context(), userID, loanID)
	if err != nil {
		handleServiceError(c, err, "retrieve loan")
		return
	}
	repayments, err := h.loanService.ListRepayments(c.Request.Context(), userID, loanID)
	if err != nil {
		handleServiceError(c, err, "retrieve loan")
		return
	}
	penalties, err := h.loanService.ListPenalties(c.Request.Context(), userID, loanID)
	if err != nil {
		handleServiceError(c, err, "retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan, repayments, penalties))
}

// deleteLoan godoc
// @Summary Delete a loan
// @Description Removes a loan along with its repayments and penalties
// @Tags loans
// @Param loanID path string true "Loan ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID} [delete]
func (h *loanHandler) deleteLoan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), userID, c.Param("loanID")); err != nil {
		handleServiceError(c, err, "delete loan")
		return
	}
	c.Status(http.StatusNoContent)
}

// approveLoan godoc
// @Summary Approve a pending loan
// @Description Transitions a PENDING loan to APPROVED, stamping the approval date and disbursement period
// @Tags loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param approval body dto.ApproveLoanRequest true "Approval details"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not PENDING"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID}/approve [post]
func (h *loanHandler) approveLoan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ApproveLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approved, err := h.loanService.ApproveLoan(c.Request.Context(), userID, c.Param("loanID"), req)
	if err != nil {
		handleServiceError(c, err, "approve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(approved, nil, nil))
}

// rejectLoan godoc
// @Summary Reject a pending loan
// @Description Transitions a PENDING loan to REJECTED (terminal)
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Loan is not PENDING"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID}/reject [post]
func (h *loanHandler) rejectLoan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rejected, err := h.loanService.RejectLoan(c.Request.Context(), userID, c.Param("loanID"))
	if err != nil {
		handleServiceError(c, err, "reject loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(rejected, nil, nil))
}

// addRepayment godoc
// @Summary Record a loan repayment
// @Description Records a repayment and settles the loan status; a loan whose repaid total covers principal, interest and penalties flips to PAID
// @Tags loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param repayment body dto.AddRepaymentRequest true "Repayment details"
// @Success 201 {object} dto.RepaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or loan not APPROVED"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID}/repayments [post]
func (h *loanHandler) addRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.AddRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.loanService.AddRepayment(c.Request.Context(), userID, c.Param("loanID"), req)
	if err != nil {
		handleServiceError(c, err, "add repayment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRepaymentResponse(created))
}

// listRepayments godoc
// @Summary List a loan's repayments
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {array} dto.RepaymentResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID}/repayments [get]
func (h *loanHandler) listRepayments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	repayments, err := h.loanService.ListRepayments(c.Request.Context(), userID, c.Param("loanID"))
	if err != nil {
		handleServiceError(c, err, "list repayments")
		return
	}
	res := make([]dto.RepaymentResponse, len(repayments))
	for i := range repayments {
		res[i] = dto.ToRepaymentResponse(&repayments[i])
	}
	c.JSON(http.StatusOK, res)
}

// removeRepayment godoc
// @Summary Remove a repayment
// @Description Deletes a repayment and re-settles the loan; a PAID loan whose total no longer covers the due reverts to APPROVED
// @Tags loans
// @Param loanID path string true "Loan ID"
// @Param repaymentID path string true "Repayment ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Repayment not found"
// @Security BearerAuth
// @Router /loans/{loanID}/repayments/{repaymentID} [delete]
func (h *loanHandler) removeRepayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.loanService.RemoveRepayment(c.Request.Context(), userID, c.Param("loanID"), c.Param("repaymentID")); err != nil {
		handleServiceError(c, err, "remove repayment")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPenalties godoc
// @Summary List a loan's penalties
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {array} dto.PenaltyResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID}/penalties [get]
func (h *loanHandler) listPenalties(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	penalties, err := h.loanService.ListPenalties(c.Request.Context(), userID, c.Param("loanID"))
	if err != nil {
		handleServiceError(c, err, "list penalties")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPenaltyResponse(penalties))
}

// assessPenalties godoc
// @Summary Assess penalties for missed installments
// @Description Re-scans all active loans and records penalties for newly missed installments; idempotent per installment
// @Tags loans
// @Produce json
// @Success 200 {array} dto.PenaltyResponse
// @Security BearerAuth
// @Router /penalties/assess [post]
func (h *loanHandler) assessPenalties(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	assessed, err := h.loanService.AssessPenalties(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "assess penalties")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPenaltyResponse(assessed))
}
