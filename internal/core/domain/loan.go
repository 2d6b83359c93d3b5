package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
// PENDING -> APPROVED -> PAID; PENDING -> REJECTED (terminal).
// A PAID loan reverts to APPROVED when a repayment removal drops the repaid
// total below the amount due.
type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
	LoanPaid     LoanStatus = "PAID"
)

// RepaymentPlan selects the loan amortization scheme.
type RepaymentPlan string

const (
	// PlanMonthly is a single balloon payment due after the loan term.
	PlanMonthly RepaymentPlan = "MONTHLY"
	// PlanCutOff amortizes over bi-monthly cut-off dates (10th/25th), two
	// installments per term month.
	PlanCutOff RepaymentPlan = "CUT_OFF"
)

// Loan represents a member loan within the core domain.
type Loan struct {
	LoanID               string          `json:"loanID"` // Primary Key (UUID)
	MemberID             int             `json:"memberID"`
	Amount               decimal.Decimal `json:"amount"` // Principal, positive
	DateIssued           time.Time       `json:"dateIssued"`
	Status               LoanStatus      `json:"status"`
	DateApproved         *time.Time      `json:"dateApproved,omitempty"`
	DisbursementPeriodID string          `json:"disbursementPeriodID,omitempty"` // Period the principal left the fund
	RepaymentPlan        RepaymentPlan   `json:"repaymentPlan,omitempty"`
	InterestRate         decimal.Decimal `json:"interestRate"` // Simple interest per term month, in [0,1]
	DateClosed           *time.Time      `json:"dateClosed,omitempty"`
	TermCount            int             `json:"termCount,omitempty"` // Term length in months, positive
	PenaltyRate          decimal.Decimal `json:"penaltyRate"`         // Per missed installment, defaults to 0.03
	AuditFields
}

// Repayment is a payment made against a loan. Immutable once created except
// for deletion, which reverses its effect on the loan status.
type Repayment struct {
	RepaymentID string          `json:"repaymentID"` // Primary Key (UUID)
	LoanID      string          `json:"loanID"`
	MemberID    int             `json:"memberID"`
	Amount      decimal.Decimal `json:"amount"` // Positive value
	Date        time.Time       `json:"date"`
	PeriodID    string          `json:"periodID"`
}

// Penalty is assessed against a loan for a missed scheduled installment.
// The (LoanID, InstallmentIndex) pair is the idempotence key: re-running the
// assessor never produces a second penalty for the same missed installment.
type Penalty struct {
	PenaltyID        string          `json:"penaltyID"` // Deterministic, derived from LoanID and InstallmentIndex
	LoanID           string          `json:"loanID"`
	InstallmentIndex int             `json:"installmentIndex"` // 1-based index into the loan schedule
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	PeriodID         string          `json:"periodID"`
	Reason           string          `json:"reason,omitempty"`
}

// PenaltyIDFor derives the stable penalty identifier for a missed installment.
func PenaltyIDFor(loanID string, installmentIndex int) string {
	return fmt.Sprintf("%s-missed-%d", loanID, installmentIndex)
}
