package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type SummaryServiceTestSuite struct {
	suite.Suite
	store   *fakeSnapshotStore
	service portssvc.SummarySvcFacade
}

func (suite *SummaryServiceTestSuite) SetupTest() {
	suite.store = newFakeSnapshotStore()
	suite.service = services.NewSummaryService(suite.store)
}

func (suite *SummaryServiceTestSuite) TestGetSummary() {
	ctx := context.Background()
	snap := suite.store.snap
	addMember(suite.store, 1, "10")
	addMember(suite.store, 2, "5")

	firstDate := date(2025, time.January, 10)
	firstID := addPeriod(suite.store, firstDate)
	snap.Periods[0].Payments = []domain.Payment{
		{MemberID: 1, Amount: dec("300"), Date: firstDate, CollectionPeriod: firstID},
		{MemberID: 2, Amount: dec("200"), Date: firstDate, CollectionPeriod: firstID},
	}
	secondID := addPeriod(suite.store, date(2025, time.January, 25))

	issued := date(2025, time.January, 25)
	snap.Loans = append(snap.Loans, domain.Loan{
		LoanID:               "loan-1",
		MemberID:             1,
		Amount:               dec("400"),
		DateIssued:           issued,
		Status:               domain.LoanApproved,
		DateApproved:         &issued,
		DisbursementPeriodID: secondID,
		RepaymentPlan:        domain.PlanMonthly,
		InterestRate:         dec("0.04"),
		TermCount:            2,
	})
	snap.Repayments = append(snap.Repayments, domain.Repayment{
		RepaymentID: "rep-1", LoanID: "loan-1", MemberID: 1, Amount: dec("100"), Date: issued, PeriodID: secondID,
	})
	finance.Recompute(snap)

	summary, err := suite.service.GetSummary(ctx, "test-user")
	suite.Require().NoError(err)

	suite.Equal(2, summary.MemberCount)
	suite.Equal(1, summary.ActiveLoanCount)
	// 500 collected + 100 repaid - 400 disbursed.
	suite.True(summary.CurrentBalance.Equal(dec("200")))
	// An approved loan already carries its full interest: 400 * 0.04 * 2.
	suite.True(summary.InterestPool.Equal(dec("32")))

	suite.Require().Len(summary.PeriodLedger, 2)
	first, second := summary.PeriodLedger[0], summary.PeriodLedger[1]
	suite.Equal(firstID, first.PeriodID)
	suite.True(first.OpeningBalance.IsZero())
	suite.True(first.Collections.Equal(dec("500")))
	suite.True(first.ClosingBalance.Equal(dec("500")))
	suite.True(second.Disbursements.Equal(dec("400")))
	suite.True(second.Repayments.Equal(dec("100")))
	suite.True(second.ClosingBalance.Equal(dec("200")))

	suite.Require().Len(summary.MemberStandings, 2)
	suite.True(summary.MemberStandings[0].TotalContributed.Equal(dec("300")))
	suite.Equal(1, summary.MemberStandings[0].ActiveLoanCount)
	suite.True(summary.MemberStandings[0].TotalRepaid.Equal(dec("100")))
	suite.True(summary.MemberStandings[1].TotalContributed.Equal(dec("200")))
	suite.Equal(0, summary.MemberStandings[1].ActiveLoanCount)
}

func TestSummaryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SummaryServiceTestSuite))
}
