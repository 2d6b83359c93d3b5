package finance

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RepaidTotal sums the repayments recorded against a loan.
func RepaidTotal(loanID string, repayments []domain.Repayment) decimal.Decimal {
	total := decimal.Zero
	for _, r := range repayments {
		if r.LoanID == loanID {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// ReconcileLoanStatus settles a loan's status against its repayments and
// penalties. A funded loan whose repaid total covers principal, interest and
// penalties flips to PAID and is stamped with a close date; a PAID loan that
// no longer meets the bar (after a repayment removal) reverts to APPROVED.
// REJECTED loans never transition. Returns true when the loan was changed.
func ReconcileLoanStatus(loan *domain.Loan, repayments []domain.Repayment, penalties []domain.Penalty, now time.Time) bool {
	if loan.Status == domain.LoanRejected || loan.Status == domain.LoanPending {
		return false
	}

	repaid := RepaidTotal(loan.LoanID, repayments)
	due := TotalDueWithPenalties(*loan, penalties)

	if repaid.GreaterThanOrEqual(due) {
		if loan.Status != domain.LoanPaid {
			loan.Status = domain.LoanPaid
			closed := now
			loan.DateClosed = &closed
			return true
		}
		return false
	}

	if loan.Status == domain.LoanPaid {
		loan.Status = domain.LoanApproved
		loan.DateClosed = nil
		return true
	}
	return false
}
