package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoanServiceTestSuite struct {
	suite.Suite
	store   *fakeSnapshotStore
	service portssvc.LoanSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.store = newFakeSnapshotStore()
	suite.service = services.NewLoanService(suite.store)
	addMember(suite.store, 1, "10")
}

func (suite *LoanServiceTestSuite) requestMonthlyLoan() *domain.Loan {
	rate := dec("0.04")
	loan, err := suite.service.RequestLoan(context.Background(), "test-user", dto.RequestLoanRequest{
		MemberID:      1,
		Amount:        dec("1000"),
		RepaymentPlan: domain.PlanMonthly,
		TermCount:     2,
		InterestRate:  &rate,
	})
	suite.Require().NoError(err)
	return loan
}

func (suite *LoanServiceTestSuite) approve(loanID string) *domain.Loan {
	approved, err := suite.service.ApproveLoan(context.Background(), "test-user", loanID, dto.ApproveLoanRequest{})
	suite.Require().NoError(err)
	return approved
}

func (suite *LoanServiceTestSuite) TestRequestLoan_StartsPending() {
	loan := suite.requestMonthlyLoan()

	suite.Equal(domain.LoanPending, loan.Status)
	suite.NotEmpty(loan.LoanID)
	suite.Nil(loan.DateApproved)
	// A pending loan does not move the fund balance.
	suite.True(suite.store.snap.CurrentBalance.IsZero())
}

func (suite *LoanServiceTestSuite) TestRequestLoan_UnknownMember() {
	_, err := suite.service.RequestLoan(context.Background(), "test-user", dto.RequestLoanRequest{
		MemberID:      99,
		Amount:        dec("1000"),
		RepaymentPlan: domain.PlanMonthly,
		TermCount:     2,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LoanServiceTestSuite) TestRequestLoan_Validation() {
	ctx := context.Background()

	_, err := suite.service.RequestLoan(ctx, "test-user", dto.RequestLoanRequest{
		MemberID: 1, Amount: dec("-5"), RepaymentPlan: domain.PlanMonthly, TermCount: 2,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	badRate := dec("1.5")
	_, err = suite.service.RequestLoan(ctx, "test-user", dto.RequestLoanRequest{
		MemberID: 1, Amount: dec("1000"), RepaymentPlan: domain.PlanMonthly, TermCount: 2, InterestRate: &badRate,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RequestLoan(ctx, "test-user", dto.RequestLoanRequest{
		MemberID: 1, Amount: dec("1000"), RepaymentPlan: "WEEKLY", TermCount: 2,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestRequestLoan_RateMustMatchPlan() {
	ctx := context.Background()

	// The cut-off rate on a monthly loan is a data-entry mistake.
	cutOffRate := dec("0.03")
	_, err := suite.service.RequestLoan(ctx, "test-user", dto.RequestLoanRequest{
		MemberID: 1, Amount: dec("1000"), RepaymentPlan: domain.PlanMonthly, TermCount: 2, InterestRate: &cutOffRate,
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	monthlyRate := dec("0.04")
	_, err = suite.service.RequestLoan(ctx, "test-user", dto.RequestLoanRequest{
		MemberID: 1, Amount: dec("1000"), RepaymentPlan: domain.PlanCutOff, TermCount: 6, InterestRate: &monthlyRate,
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// An explicit zero means "use the plan default" and is accepted.
	zero := dec("0")
	loan, err := suite.service.RequestLoan(ctx, "test-user", dto.RequestLoanRequest{
		MemberID: 1, Amount: dec("1000"), RepaymentPlan: domain.PlanMonthly, TermCount: 2, InterestRate: &zero,
	})
	suite.Require().NoError(err)
	suite.True(loan.InterestRate.IsZero())
}

func (suite *LoanServiceTestSuite) TestApproveLoan_StampsApprovalAndDisbursement() {
	periodID := addPeriod(suite.store, date(2025, time.March, 15))
	loan := suite.requestMonthlyLoan()

	approved := suite.approve(loan.LoanID)

	suite.Equal(domain.LoanApproved, approved.Status)
	suite.NotNil(approved.DateApproved)
	suite.Equal(periodID, approved.DisbursementPeriodID)
	// The principal leaves the fund once the loan is approved.
	suite.True(suite.store.snap.CurrentBalance.Equal(dec("-1000")))
}

func (suite *LoanServiceTestSuite) TestApproveLoan_OnlyPending() {
	loan := suite.requestMonthlyLoan()
	suite.approve(loan.LoanID)

	_, err := suite.service.ApproveLoan(context.Background(), "test-user", loan.LoanID, dto.ApproveLoanRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestRejectLoan_Terminal() {
	loan := suite.requestMonthlyLoan()

	rejected, err := suite.service.RejectLoan(context.Background(), "test-user", loan.LoanID)
	suite.Require().NoError(err)
	suite.Equal(domain.LoanRejected, rejected.Status)

	// A rejected loan can never be approved.
	_, err = suite.service.ApproveLoan(context.Background(), "test-user", loan.LoanID, dto.ApproveLoanRequest{})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestAddRepayment_FullCoverFlipsToPaid() {
	ctx := context.Background()
	loan := suite.requestMonthlyLoan()
	suite.approve(loan.LoanID)

	// 1000 at 4% over 2 months: total due 1080.
	_, err := suite.service.AddRepayment(ctx, "test-user", loan.LoanID, dto.AddRepaymentRequest{Amount: dec("1080")})
	suite.Require().NoError(err)

	settled := suite.store.snap.FindLoan(loan.LoanID)
	suite.Equal(domain.LoanPaid, settled.Status)
	suite.NotNil(settled.DateClosed)
	// Principal out, full repayment in: the fund nets the interest.
	suite.True(suite.store.snap.CurrentBalance.Equal(dec("80")))
	suite.True(suite.store.snap.InterestPool.Equal(dec("80")))
}

func (suite *LoanServiceTestSuite) TestAddRepayment_PartialStaysApproved() {
	ctx := context.Background()
	loan := suite.requestMonthlyLoan()
	suite.approve(loan.LoanID)

	_, err := suite.service.AddRepayment(ctx, "test-user", loan.LoanID, dto.AddRepaymentRequest{Amount: dec("500")})
	suite.Require().NoError(err)

	suite.Equal(domain.LoanApproved, suite.store.snap.FindLoan(loan.LoanID).Status)
}

func (suite *LoanServiceTestSuite) TestAddRepayment_RequiresApprovedLoan() {
	loan := suite.requestMonthlyLoan()

	_, err := suite.service.AddRepayment(context.Background(), "test-user", loan.LoanID, dto.AddRepaymentRequest{Amount: dec("100")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestRemoveRepayment_RevertsPaidToApproved() {
	ctx := context.Background()
	loan := suite.requestMonthlyLoan()
	suite.approve(loan.LoanID)

	repayment, err := suite.service.AddRepayment(ctx, "test-user", loan.LoanID, dto.AddRepaymentRequest{Amount: dec("1080")})
	suite.Require().NoError(err)
	suite.Equal(domain.LoanPaid, suite.store.snap.FindLoan(loan.LoanID).Status)

	err = suite.service.RemoveRepayment(ctx, "test-user", loan.LoanID, repayment.RepaymentID)
	suite.Require().NoError(err)

	reverted := suite.store.snap.FindLoan(loan.LoanID)
	suite.Equal(domain.LoanApproved, reverted.Status)
	suite.Nil(reverted.DateClosed)
}

func (suite *LoanServiceTestSuite) TestDeleteLoan_CascadesRepaymentsAndPenalties() {
	ctx := context.Background()
	loan := suite.requestMonthlyLoan()
	suite.approve(loan.LoanID)

	_, err := suite.service.AddRepayment(ctx, "test-user", loan.LoanID, dto.AddRepaymentRequest{Amount: dec("500")})
	suite.Require().NoError(err)

	err = suite.service.DeleteLoan(ctx, "test-user", loan.LoanID)
	suite.Require().NoError(err)

	suite.Empty(suite.store.snap.Loans)
	suite.Empty(suite.store.snap.Repayments)
	suite.True(suite.store.snap.CurrentBalance.IsZero())
}

func (suite *LoanServiceTestSuite) TestAssessPenalties_CutOffLoanMissedInstallments() {
	ctx := context.Background()
	// The latest period date drives the assessment reference.
	addPeriod(suite.store, date(2025, time.March, 15))

	approvedAt := date(2025, time.January, 2)
	suite.store.snap.Loans = append(suite.store.snap.Loans, domain.Loan{
		LoanID:        "loan-1",
		MemberID:      1,
		Amount:        dec("10000"),
		DateIssued:    approvedAt,
		Status:        domain.LoanApproved,
		DateApproved:  &approvedAt,
		RepaymentPlan: domain.PlanCutOff,
		InterestRate:  dec("0.03"),
		TermCount:     6,
	})

	assessed, err := suite.service.AssessPenalties(ctx, "test-user")
	suite.Require().NoError(err)

	// Jan 10, Jan 25, Feb 10, Feb 25 and Mar 10 all fell due unpaid.
	suite.Len(assessed, 5)

	// Re-running assesses nothing new.
	again, err := suite.service.AssessPenalties(ctx, "test-user")
	suite.Require().NoError(err)
	suite.Empty(again)

	penalties, err := suite.service.ListPenalties(ctx, "test-user", "loan-1")
	suite.Require().NoError(err)
	suite.Len(penalties, 5)

	// 3% of the 983.33 installment per miss.
	installment := dec("11800").Div(decimal.NewFromInt(12))
	suite.True(penalties[0].Amount.Equal(dec("0.03").Mul(installment)))
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
