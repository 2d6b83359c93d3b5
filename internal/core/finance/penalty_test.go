package finance_test

import (
	"testing"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cutOffLoan() domain.Loan {
	approved := date(2025, time.January, 2)
	return domain.Loan{
		LoanID:        "loan-1",
		MemberID:      1,
		Amount:        dec("10000"),
		Status:        domain.LoanApproved,
		DateApproved:  &approved,
		RepaymentPlan: domain.PlanCutOff,
		InterestRate:  dec("0.03"),
		TermCount:     6,
	}
}

func TestAssessLoanPenalties_MissedInstallments(t *testing.T) {
	loan := cutOffLoan()
	now := date(2025, time.February, 26)

	// Two installments due (Jan 10, Jan 25) by the reference date, nothing repaid.
	got := finance.AssessLoanPenalties(loan, nil, nil, nil, date(2025, time.January, 25), now)
	require.Len(t, got, 2)

	wantAmount := dec("0.03").Mul(finance.InstallmentAmount(loan))
	for i, p := range got {
		assert.Equal(t, "loan-1", p.LoanID)
		assert.Equal(t, i+1, p.InstallmentIndex)
		assert.Equal(t, domain.PenaltyIDFor("loan-1", i+1), p.PenaltyID)
		assert.True(t, wantAmount.Equal(p.Amount), "want %s got %s", wantAmount, p.Amount)
		assert.Equal(t, now, p.Date)
	}
}

func TestAssessLoanPenalties_Idempotent(t *testing.T) {
	loan := cutOffLoan()
	ref := date(2025, time.February, 10)
	now := date(2025, time.February, 11)

	first := finance.AssessLoanPenalties(loan, nil, nil, nil, ref, now)
	require.NotEmpty(t, first)

	// Re-running with the first round recorded must emit nothing new.
	second := finance.AssessLoanPenalties(loan, nil, first, nil, ref, now)
	assert.Empty(t, second)
}

func TestAssessLoanPenalties_CoveredInstallmentsNotPenalized(t *testing.T) {
	loan := cutOffLoan()
	installment := finance.InstallmentAmount(loan)

	// Repayments covering two full installments before the reference date.
	repayments := []domain.Repayment{
		{RepaymentID: "r1", LoanID: "loan-1", Amount: installment.Mul(decimal.NewFromInt(2)), Date: date(2025, time.January, 20)},
	}

	// Three installments due by Feb 10; only the third is uncovered.
	got := finance.AssessLoanPenalties(loan, repayments, nil, nil, date(2025, time.February, 10), date(2025, time.February, 11))
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].InstallmentIndex)
}

func TestAssessLoanPenalties_OnlyApprovedLoans(t *testing.T) {
	for _, status := range []domain.LoanStatus{domain.LoanPending, domain.LoanRejected, domain.LoanPaid} {
		loan := cutOffLoan()
		loan.Status = status
		got := finance.AssessLoanPenalties(loan, nil, nil, nil, date(2025, time.March, 1), date(2025, time.March, 1))
		assert.Empty(t, got, "status %s must not be assessed", status)
	}
}

func TestAssessLoanPenalties_PeriodAttribution(t *testing.T) {
	loan := cutOffLoan()
	periods := []domain.CollectionPeriod{
		{PeriodID: "2025-01-10", Date: date(2025, time.January, 10)},
		{PeriodID: "2025-01-25", Date: date(2025, time.January, 25)},
		{PeriodID: "2025-02-10", Date: date(2025, time.February, 10)},
	}

	got := finance.AssessLoanPenalties(loan, nil, nil, periods, date(2025, time.January, 25), date(2025, time.January, 26))
	require.Len(t, got, 2)

	// Missed Jan 10 due -> first period strictly after is Jan 25; missed
	// Jan 25 due -> Feb 10.
	assert.Equal(t, "2025-01-25", got[0].PeriodID)
	assert.Equal(t, "2025-02-10", got[1].PeriodID)
}

func TestAssessLoanPenalties_PeriodFallbacks(t *testing.T) {
	loan := cutOffLoan()

	// No period after the missed date: fall back to the latest known period.
	periods := []domain.CollectionPeriod{
		{PeriodID: "2025-01-10", Date: date(2025, time.January, 10)},
	}
	got := finance.AssessLoanPenalties(loan, nil, nil, periods, date(2025, time.January, 10), date(2025, time.January, 11))
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-10", got[0].PeriodID)

	// No periods at all: the missed date itself keys the penalty.
	got = finance.AssessLoanPenalties(loan, nil, nil, nil, date(2025, time.January, 10), date(2025, time.January, 11))
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-10", got[0].PeriodID)
}

func TestAssessSnapshot_UsesLatestPeriodAsReference(t *testing.T) {
	loan := cutOffLoan()
	s := &domain.Snapshot{
		Loans: []domain.Loan{loan},
		Periods: []domain.CollectionPeriod{
			{PeriodID: "2025-01-10", Date: date(2025, time.January, 10)},
			{PeriodID: "2025-01-25", Date: date(2025, time.January, 25)},
		},
	}

	// Latest period is Jan 25, so both January installments are due.
	got := finance.AssessSnapshot(s, date(2025, time.March, 15))
	assert.Len(t, got, 2)

	// Recording them makes a second sweep a no-op.
	s.Penalties = append(s.Penalties, got...)
	assert.Empty(t, finance.AssessSnapshot(s, date(2025, time.March, 15)))
}
