package finance

import (
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	// DefaultMonthlyRate is the simple interest rate per month for balloon loans.
	DefaultMonthlyRate = decimal.NewFromFloat(0.04)
	// DefaultCutOffRate is the simple interest rate per month for cut-off loans.
	DefaultCutOffRate = decimal.NewFromFloat(0.03)
	// DefaultPenaltyRate is applied per missed installment.
	DefaultPenaltyRate = decimal.NewFromFloat(0.03)
)

// RateForPlan returns the conventional interest rate for a repayment plan.
func RateForPlan(plan domain.RepaymentPlan) decimal.Decimal {
	if plan == domain.PlanMonthly {
		return DefaultMonthlyRate
	}
	return DefaultCutOffRate
}

// EffectiveRate returns the loan's interest rate. A zero stored rate means
// "unset": the plan's conventional rate applies. A true 0% loan is not
// representable and is not a product this fund offers.
func EffectiveRate(loan domain.Loan) decimal.Decimal {
	if loan.InterestRate.IsZero() {
		return RateForPlan(loan.RepaymentPlan)
	}
	return loan.InterestRate
}

// EffectivePenaltyRate returns the loan's penalty rate. As with EffectiveRate,
// a zero stored rate means "unset" and the default applies.
func EffectivePenaltyRate(loan domain.Loan) decimal.Decimal {
	if loan.PenaltyRate.IsZero() {
		return DefaultPenaltyRate
	}
	return loan.PenaltyRate
}

// TotalDue computes principal plus simple interest over the loan term:
// principal × (1 + rate × termCount). Penalties are not included; see
// TotalDueWithPenalties.
func TotalDue(loan domain.Loan) decimal.Decimal {
	rate := EffectiveRate(loan)
	term := decimal.NewFromInt(int64(loan.TermCount))
	return loan.Amount.Mul(decimal.NewFromInt(1).Add(rate.Mul(term)))
}

// TotalDueWithPenalties is the full amount a borrower must cover for the
// loan to be considered paid: principal, interest, and assessed penalties.
func TotalDueWithPenalties(loan domain.Loan, penalties []domain.Penalty) decimal.Decimal {
	due := TotalDue(loan)
	for _, p := range penalties {
		if p.LoanID == loan.LoanID {
			due = due.Add(p.Amount)
		}
	}
	return due
}

// InstallmentCount returns the number of scheduled installments: one balloon
// payment for monthly loans, two per term month for cut-off loans.
func InstallmentCount(loan domain.Loan) int {
	if loan.RepaymentPlan == domain.PlanCutOff {
		return loan.TermCount * 2
	}
	if loan.TermCount > 0 {
		return loan.TermCount
	}
	return 0
}

// InstallmentAmount is the amount due per scheduled installment.
func InstallmentAmount(loan domain.Loan) decimal.Decimal {
	due := TotalDue(loan)
	if loan.RepaymentPlan != domain.PlanCutOff {
		return due
	}
	n := loan.TermCount * 2
	if n == 0 {
		return due
	}
	return due.Div(decimal.NewFromInt(int64(n)))
}

// InterestEarned is the loan's contribution to the dividend pool. Only
// loans that were actually funded (APPROVED or PAID) earn interest.
func InterestEarned(loan domain.Loan) decimal.Decimal {
	if loan.Status != domain.LoanApproved && loan.Status != domain.LoanPaid {
		return decimal.Zero
	}
	return TotalDue(loan).Sub(loan.Amount)
}
