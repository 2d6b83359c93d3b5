package dto

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	"github.com/shopspring/decimal"
)

// RequestLoanRequest defines the data needed to file a loan application.
type RequestLoanRequest struct {
	MemberID      int                  `json:"memberID" binding:"required,min=1"`
	Amount        decimal.Decimal      `json:"amount" binding:"required"`
	RepaymentPlan domain.RepaymentPlan `json:"repaymentPlan" binding:"required,oneof=MONTHLY CUT_OFF"`
	TermCount     int                  `json:"termCount" binding:"required,min=1"`
	InterestRate  *decimal.Decimal     `json:"interestRate"` // Must match the plan's rate; omitted or zero means the plan default
	PenaltyRate   *decimal.Decimal     `json:"penaltyRate"`  // Omitted or zero means the 0.03 default
	DateIssued    *time.Time           `json:"dateIssued"`   // Defaults to now
}

// ApproveLoanRequest defines the data accepted when approving a loan.
type ApproveLoanRequest struct {
	DateApproved         *time.Time `json:"dateApproved"`         // Defaults to now
	DisbursementPeriodID *string    `json:"disbursementPeriodID"` // Defaults to the latest period
}

// AddRepaymentRequest defines a payment made against a loan.
type AddRepaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     *time.Time      `json:"date"`     // Defaults to now
	PeriodID *string         `json:"periodID"` // Defaults to the latest period
}

// LoanResponse defines the data returned for a loan, including the derived
// valuation figures the frontend renders alongside it.
type LoanResponse struct {
	LoanID               string               `json:"loanID"`
	MemberID             int                  `json:"memberID"`
	Amount               decimal.Decimal      `json:"amount"`
	DateIssued           time.Time            `json:"dateIssued"`
	Status               domain.LoanStatus    `json:"status"`
	DateApproved         *time.Time           `json:"dateApproved,omitempty"`
	DisbursementPeriodID string               `json:"disbursementPeriodID,omitempty"`
	RepaymentPlan        domain.RepaymentPlan `json:"repaymentPlan,omitempty"`
	InterestRate         decimal.Decimal      `json:"interestRate"`
	PenaltyRate          decimal.Decimal      `json:"penaltyRate"`
	TermCount            int                  `json:"termCount"`
	DateClosed           *time.Time           `json:"dateClosed,omitempty"`

	TotalDue          decimal.Decimal `json:"totalDue"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	InstallmentCount  int             `json:"installmentCount"`
	RepaidTotal       decimal.Decimal `json:"repaidTotal"`
	PenaltyTotal      decimal.Decimal `json:"penaltyTotal"`
	Schedule          []time.Time     `json:"schedule,omitempty"`
}

// RepaymentResponse defines the data returned for a repayment.
type RepaymentResponse struct {
	RepaymentID string          `json:"repaymentID"`
	LoanID      string          `json:"loanID"`
	MemberID    int             `json:"memberID"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	PeriodID    string          `json:"periodID"`
}

// PenaltyResponse defines the data returned for an assessed penalty.
type PenaltyResponse struct {
	PenaltyID        string          `json:"penaltyID"`
	LoanID           string          `json:"loanID"`
	InstallmentIndex int             `json:"installmentIndex"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	PeriodID         string          `json:"periodID"`
	Reason           string          `json:"reason,omitempty"`
}

// ToLoanResponse converts a domain.Loan plus its repayments and penalties to
// a LoanResponse DTO with derived valuation fields.
func ToLoanResponse(loan *domain.Loan, repayments []domain.Repayment, penalties []domain.Penalty) LoanResponse {
	penaltyTotal := decimal.Zero
	for _, p := range penalties {
		if p.LoanID == loan.LoanID {
			penaltyTotal = penaltyTotal.Add(p.Amount)
		}
	}
	resp := LoanResponse{
		LoanID:               loan.LoanID,
		MemberID:             loan.MemberID,
		Amount:               loan.Amount,
		DateIssued:           loan.DateIssued,
		Status:               loan.Status,
		DateApproved:         loan.DateApproved,
		DisbursementPeriodID: loan.DisbursementPeriodID,
		RepaymentPlan:        loan.RepaymentPlan,
		InterestRate:         finance.EffectiveRate(*loan),
		PenaltyRate:          finance.EffectivePenaltyRate(*loan),
		TermCount:            loan.TermCount,
		DateClosed:           loan.DateClosed,
		TotalDue:             finance.TotalDue(*loan),
		InstallmentAmount:    finance.InstallmentAmount(*loan),
		InstallmentCount:     finance.InstallmentCount(*loan),
		RepaidTotal:          finance.RepaidTotal(loan.LoanID, repayments),
		PenaltyTotal:         penaltyTotal,
	}
	if loan.Status == domain.LoanApproved || loan.Status == domain.LoanPaid {
		resp.Schedule = finance.ScheduleForLoan(*loan)
	}
	return resp
}

// ToListLoanResponse converts a slice of loans to response DTOs.
func ToListLoanResponse(loans []domain.Loan, repayments []domain.Repayment, penalties []domain.Penalty) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i], repayments, penalties)
	}
	return res
}

// ToRepaymentResponse converts a domain.Repayment to a RepaymentResponse DTO.
func ToRepaymentResponse(r *domain.Repayment) RepaymentResponse {
	return RepaymentResponse{
		RepaymentID: r.RepaymentID,
		LoanID:      r.LoanID,
		MemberID:    r.MemberID,
		Amount:      r.Amount,
		Date:        r.Date,
		PeriodID:    r.PeriodID,
	}
}

// ToListPenaltyResponse converts a slice of penalties to response DTOs.
func ToListPenaltyResponse(penalties []domain.Penalty) []PenaltyResponse {
	res := make([]PenaltyResponse, len(penalties))
	for i, p := range penalties {
		res[i] = PenaltyResponse{
			PenaltyID:        p.PenaltyID,
			LoanID:           p.LoanID,
			InstallmentIndex: p.InstallmentIndex,
			Amount:           p.Amount,
			Date:             p.Date,
			PeriodID:         p.PeriodID,
			Reason:           p.Reason,
		}
	}
	return res
}
