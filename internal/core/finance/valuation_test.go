package finance_test

import (
	"testing"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTotalDue(t *testing.T) {
	tests := []struct {
		name string
		loan domain.Loan
		want decimal.Decimal
	}{
		{
			name: "cut-off loan with explicit rate",
			loan: domain.Loan{
				Amount:        dec("10000"),
				RepaymentPlan: domain.PlanCutOff,
				InterestRate:  dec("0.03"),
				TermCount:     6,
			},
			want: dec("11800"),
		},
		{
			name: "monthly loan with explicit rate",
			loan: domain.Loan{
				Amount:        dec("5000"),
				RepaymentPlan: domain.PlanMonthly,
				InterestRate:  dec("0.04"),
				TermCount:     3,
			},
			want: dec("5600"),
		},
		{
			name: "rate defaults by plan when unset",
			loan: domain.Loan{
				Amount:        dec("1000"),
				RepaymentPlan: domain.PlanMonthly,
				TermCount:     1,
			},
			want: dec("1040"),
		},
		{
			name: "cut-off default rate",
			loan: domain.Loan{
				Amount:        dec("1000"),
				RepaymentPlan: domain.PlanCutOff,
				TermCount:     1,
			},
			want: dec("1030"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.TotalDue(tt.loan)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestInstallmentAmount(t *testing.T) {
	loan := domain.Loan{
		Amount:        dec("10000"),
		RepaymentPlan: domain.PlanCutOff,
		InterestRate:  dec("0.03"),
		TermCount:     6,
	}

	installment := finance.InstallmentAmount(loan)
	assert.True(t, dec("983.33").Equal(installment.Round(2)), "got %s", installment)
	assert.Equal(t, 12, finance.InstallmentCount(loan))

	// A monthly loan is a single balloon payment of the full amount due.
	balloon := domain.Loan{
		Amount:        dec("5000"),
		RepaymentPlan: domain.PlanMonthly,
		InterestRate:  dec("0.04"),
		TermCount:     3,
	}
	assert.True(t, finance.TotalDue(balloon).Equal(finance.InstallmentAmount(balloon)))
	assert.Equal(t, 3, finance.InstallmentCount(balloon))
}

func TestInstallmentRoundTrip(t *testing.T) {
	// installment × installment count must reproduce the total due for both
	// plan types, within rounding of the division.
	loans := []domain.Loan{
		{Amount: dec("10000"), RepaymentPlan: domain.PlanCutOff, InterestRate: dec("0.03"), TermCount: 6},
		{Amount: dec("7777.77"), RepaymentPlan: domain.PlanCutOff, InterestRate: dec("0.03"), TermCount: 3},
		{Amount: dec("5000"), RepaymentPlan: domain.PlanMonthly, InterestRate: dec("0.04"), TermCount: 3},
	}

	for _, loan := range loans {
		installment := finance.InstallmentAmount(loan)
		n := int64(1)
		if loan.RepaymentPlan == domain.PlanCutOff {
			n = int64(loan.TermCount * 2)
		}
		total := installment.Mul(decimal.NewFromInt(n))
		diff := total.Sub(finance.TotalDue(loan)).Abs()
		assert.True(t, diff.LessThan(dec("0.01")), "round trip drift %s for %s", diff, loan.Amount)
	}
}

func TestInterestEarned(t *testing.T) {
	base := domain.Loan{
		Amount:        dec("10000"),
		RepaymentPlan: domain.PlanCutOff,
		InterestRate:  dec("0.03"),
		TermCount:     6,
	}

	tests := []struct {
		status domain.LoanStatus
		want   decimal.Decimal
	}{
		{domain.LoanApproved, dec("1800")},
		{domain.LoanPaid, dec("1800")},
		{domain.LoanPending, decimal.Zero},
		{domain.LoanRejected, decimal.Zero},
	}

	for _, tt := range tests {
		loan := base
		loan.Status = tt.status
		got := finance.InterestEarned(loan)
		assert.True(t, tt.want.Equal(got), "status %s: want %s got %s", tt.status, tt.want, got)
	}
}

func TestTotalDueWithPenalties(t *testing.T) {
	loan := domain.Loan{
		LoanID:        "loan-1",
		Amount:        dec("10000"),
		RepaymentPlan: domain.PlanCutOff,
		InterestRate:  dec("0.03"),
		TermCount:     6,
	}
	penalties := []domain.Penalty{
		{LoanID: "loan-1", InstallmentIndex: 1, Amount: dec("29.50")},
		{LoanID: "loan-1", InstallmentIndex: 2, Amount: dec("29.50")},
		{LoanID: "other-loan", InstallmentIndex: 1, Amount: dec("100")},
	}

	got := finance.TotalDueWithPenalties(loan, penalties)
	require.True(t, dec("11859").Equal(got), "got %s", got)
}
