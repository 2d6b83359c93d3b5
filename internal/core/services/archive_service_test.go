package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type ArchiveServiceTestSuite struct {
	suite.Suite
	store   *fakeSnapshotStore
	service portssvc.ArchiveSvcFacade
}

func (suite *ArchiveServiceTestSuite) SetupTest() {
	suite.store = newFakeSnapshotStore()
	suite.service = services.NewArchiveService(suite.store)
}

// seedYear2024 builds a closed-out 2024 alongside live records: one
// collection period with a 500 payment, a settled 1000 loan repaid at 1080,
// an 80 dividend payout, plus a still-open 2000 loan and a 2025 period that
// must survive archiving.
func (suite *ArchiveServiceTestSuite) seedYear2024() {
	snap := suite.store.snap
	addMember(suite.store, 1, "10")

	periodDate := date(2024, time.March, 10)
	periodID := domain.PeriodIDForDate(periodDate)
	snap.Periods = append(snap.Periods, domain.CollectionPeriod{
		PeriodID: periodID,
		Date:     periodDate,
		Payments: []domain.Payment{
			{MemberID: 1, Amount: dec("500"), Date: periodDate, CollectionPeriod: periodID},
		},
	})
	addPeriod(suite.store, date(2025, time.January, 10))

	issued := date(2024, time.April, 1)
	closed := date(2024, time.June, 1)
	snap.Loans = append(snap.Loans,
		domain.Loan{
			LoanID:               "loan-paid",
			MemberID:             1,
			Amount:               dec("1000"),
			DateIssued:           issued,
			Status:               domain.LoanPaid,
			DateApproved:         &issued,
			DateClosed:           &closed,
			DisbursementPeriodID: periodID,
			RepaymentPlan:        domain.PlanMonthly,
			InterestRate:         dec("0.04"),
			TermCount:            2,
		},
		domain.Loan{
			LoanID:        "loan-open",
			MemberID:      1,
			Amount:        dec("2000"),
			DateIssued:    issued,
			Status:        domain.LoanApproved,
			DateApproved:  &issued,
			RepaymentPlan: domain.PlanMonthly,
			InterestRate:  dec("0.04"),
			TermCount:     6,
		},
	)
	snap.Repayments = append(snap.Repayments, domain.Repayment{
		RepaymentID: "rep-1", LoanID: "loan-paid", MemberID: 1, Amount: dec("1080"), Date: closed, PeriodID: periodID,
	})
	snap.Distributions = append(snap.Distributions, domain.DividendDistribution{
		DistributionID:    "dist-1",
		Date:              date(2024, time.December, 20),
		TotalInterestPool: dec("80"),
		TotalShares:       dec("10"),
		PerShareDividend:  dec("8"),
	})
}

func (suite *ArchiveServiceTestSuite) TestArchiveYear_MovesRecordsAndKeepsBalance() {
	ctx := context.Background()
	suite.seedYear2024()

	// 500 collected + 1080 repaid - 1000 - 2000 funded.
	balanceBefore := dec("-1420")

	archive, err := suite.service.ArchiveYear(ctx, "test-user", 2024)
	suite.Require().NoError(err)

	suite.Equal(2024, archive.Year)
	suite.Len(archive.Periods, 1)
	suite.Len(archive.Loans, 1)
	suite.Equal("loan-paid", archive.Loans[0].LoanID)
	suite.Len(archive.Repayments, 1)
	suite.Len(archive.Distributions, 1)

	// The open loan and the 2025 period stay live.
	snap := suite.store.snap
	suite.Require().Len(snap.Loans, 1)
	suite.Equal("loan-open", snap.Loans[0].LoanID)
	suite.Require().Len(snap.Periods, 1)
	suite.Equal("2025-01-10", snap.Periods[0].PeriodID)
	suite.Empty(snap.Repayments)
	suite.Empty(snap.Distributions)

	// The removed cash flows rolled into the carried balance.
	suite.True(snap.BeginningBalance.Equal(dec("580")))
	suite.True(snap.CurrentBalance.Equal(balanceBefore))
}

func (suite *ArchiveServiceTestSuite) TestArchiveYear_SummaryTotals() {
	ctx := context.Background()
	suite.seedYear2024()

	archive, err := suite.service.ArchiveYear(ctx, "test-user", 2024)
	suite.Require().NoError(err)

	summary := archive.Summary
	suite.True(summary.TotalCollected.Equal(dec("500")))
	suite.True(summary.TotalDisbursed.Equal(dec("3000")))
	suite.True(summary.TotalRepaid.Equal(dec("1080")))
	suite.True(summary.TotalDistributed.Equal(dec("80")))
	suite.Equal(1, summary.PeriodCount)
	suite.Equal(2, summary.LoanCount)
	suite.Equal(1, summary.OutstandingLoans)
	suite.Equal(1, summary.DistributionCount)
	suite.True(summary.ClosingBalance.Equal(dec("-1420")))
}

func (suite *ArchiveServiceTestSuite) TestArchiveYear_DuplicateYear() {
	ctx := context.Background()
	suite.seedYear2024()

	_, err := suite.service.ArchiveYear(ctx, "test-user", 2024)
	suite.Require().NoError(err)

	_, err = suite.service.ArchiveYear(ctx, "test-user", 2024)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ArchiveServiceTestSuite) TestArchiveYear_NothingToArchive() {
	suite.seedYear2024()

	_, err := suite.service.ArchiveYear(context.Background(), "test-user", 2019)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ArchiveServiceTestSuite) TestGetArchive_NotFound() {
	_, err := suite.service.GetArchive(context.Background(), "test-user", 2024)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ArchiveServiceTestSuite) TestListArchives_NewestFirst() {
	ctx := context.Background()
	suite.seedYear2024()

	_, err := suite.service.ArchiveYear(ctx, "test-user", 2024)
	suite.Require().NoError(err)
	_, err = suite.service.ArchiveYear(ctx, "test-user", 2025)
	suite.Require().NoError(err)

	archives, err := suite.service.ListArchives(ctx, "test-user")
	suite.Require().NoError(err)
	suite.Require().Len(archives, 2)
	suite.Equal(2025, archives[0].Year)
	suite.Equal(2024, archives[1].Year)
}

func (suite *ArchiveServiceTestSuite) TestExportArchiveCSV() {
	ctx := context.Background()
	suite.seedYear2024()

	_, err := suite.service.ArchiveYear(ctx, "test-user", 2024)
	suite.Require().NoError(err)

	out, err := suite.service.ExportArchiveCSV(ctx, "test-user", 2024)
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	suite.Require().Len(lines, 2)
	suite.Equal("period_id,date,opening_balance,collections,disbursements,repayments,closing_balance", lines[0])
	suite.Equal("2024-03-10,2024-03-10,0.00,500.00,1000.00,1080.00,580.00", lines[1])
}

func (suite *ArchiveServiceTestSuite) TestExportArchiveCSV_UnknownYear() {
	_, err := suite.service.ExportArchiveCSV(context.Background(), "test-user", 2024)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestArchiveServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArchiveServiceTestSuite))
}
