package finance_test

import (
	"testing"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *domain.Snapshot {
	approvedJan := date(2025, time.January, 10)
	return &domain.Snapshot{
		Members: []domain.Member{
			{MemberID: 1, Name: "Ana", CommittedShares: dec("10")},
			{MemberID: 2, Name: "Ben", CommittedShares: dec("10")},
		},
		Periods: []domain.CollectionPeriod{
			{
				PeriodID: "2025-01-10",
				Date:     date(2025, time.January, 10),
				Payments: []domain.Payment{
					{MemberID: 1, Amount: dec("500"), Date: date(2025, time.January, 10), CollectionPeriod: "2025-01-10"},
					{MemberID: 2, Amount: dec("500"), Date: date(2025, time.January, 10), CollectionPeriod: "2025-01-10"},
				},
			},
			{
				PeriodID: "2025-01-25",
				Date:     date(2025, time.January, 25),
				Payments: []domain.Payment{
					{MemberID: 1, Amount: dec("500"), Date: date(2025, time.January, 25), CollectionPeriod: "2025-01-25"},
				},
			},
		},
		Loans: []domain.Loan{
			{
				LoanID:               "loan-1",
				MemberID:             2,
				Amount:               dec("1000"),
				Status:               domain.LoanApproved,
				DateApproved:         &approvedJan,
				DisbursementPeriodID: "2025-01-10",
				RepaymentPlan:        domain.PlanCutOff,
				InterestRate:         dec("0.03"),
				TermCount:            2,
			},
		},
		Repayments: []domain.Repayment{
			{RepaymentID: "r1", LoanID: "loan-1", MemberID: 2, Amount: dec("300"), Date: date(2025, time.January, 25), PeriodID: "2025-01-25"},
		},
	}
}

func TestCurrentBalance(t *testing.T) {
	s := sampleSnapshot()

	// collections 1500 + repayments 300 - disbursed 1000
	got := finance.CurrentBalance(s)
	assert.True(t, dec("800").Equal(got), "got %s", got)

	// Rejected and pending loans do not move the balance.
	s.Loans = append(s.Loans,
		domain.Loan{LoanID: "loan-2", Amount: dec("5000"), Status: domain.LoanPending},
		domain.Loan{LoanID: "loan-3", Amount: dec("5000"), Status: domain.LoanRejected},
	)
	assert.True(t, dec("800").Equal(finance.CurrentBalance(s)))

	// A paid loan's disbursement still counts.
	s.Loans[0].Status = domain.LoanPaid
	assert.True(t, dec("800").Equal(finance.CurrentBalance(s)))
}

func TestPeriodLedger(t *testing.T) {
	s := sampleSnapshot()
	s.BeginningBalance = dec("100")

	entries := finance.PeriodLedger(s)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "2025-01-10", first.PeriodID)
	assert.True(t, dec("100").Equal(first.OpeningBalance))
	assert.True(t, dec("1000").Equal(first.Collections))
	assert.True(t, dec("1000").Equal(first.Disbursements))
	assert.True(t, first.Repayments.IsZero())
	assert.True(t, dec("100").Equal(first.ClosingBalance))

	second := entries[1]
	assert.True(t, dec("100").Equal(second.OpeningBalance), "opening carries the previous closing")
	assert.True(t, dec("500").Equal(second.Collections))
	assert.True(t, dec("300").Equal(second.Repayments))
	assert.True(t, dec("900").Equal(second.ClosingBalance))

	// The independently derived balance matches the last closing balance.
	assert.True(t, finance.CurrentBalance(s).Equal(second.ClosingBalance))
}

func TestRecompute_RederivesTotals(t *testing.T) {
	s := sampleSnapshot()

	// Poison the cached values; Recompute must not trust any of them.
	s.Periods[0].TotalCollected = dec("123456")
	s.CurrentBalance = dec("-1")
	s.InterestPool = dec("-1")

	finance.Recompute(s)

	assert.True(t, dec("1000").Equal(s.Periods[0].TotalCollected))
	assert.True(t, dec("500").Equal(s.Periods[1].TotalCollected))
	assert.True(t, dec("800").Equal(s.CurrentBalance))
	// loan-1 earns 1000 × 0.03 × 2 = 60 of interest.
	assert.True(t, dec("60").Equal(s.InterestPool), "got %s", s.InterestPool)
}

func TestLiveInterestPool_DistributionsDrainThePool(t *testing.T) {
	s := sampleSnapshot()
	require.True(t, dec("60").Equal(finance.LiveInterestPool(s)))

	s.Distributions = append(s.Distributions, domain.DividendDistribution{
		DistributionID:    "d1",
		TotalInterestPool: dec("60"),
	})
	assert.True(t, finance.LiveInterestPool(s).IsZero())
}
