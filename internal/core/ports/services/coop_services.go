package services

import (
	"context"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
)

// MemberSvcFacade manages cooperative members. All operations are scoped to
// the calling user's snapshot.
type MemberSvcFacade interface {
	// CreateMember onboards a new member with the next sequential id.
	CreateMember(ctx context.Context, userID string, req dto.CreateMemberRequest) (*domain.Member, error)

	// GetMember retrieves a member by id.
	GetMember(ctx context.Context, userID string, memberID int) (*domain.Member, error)

	// ListMembers returns all members.
	ListMembers(ctx context.Context, userID string) ([]domain.Member, error)

	// UpdateMember applies admin edits (name, shares, forfeiture).
	UpdateMember(ctx context.Context, userID string, memberID int, req dto.UpdateMemberRequest) (*domain.Member, error)

	// DeleteMember removes a member, cascading to their payments, loans,
	// repayments and penalties.
	DeleteMember(ctx context.Context, userID string, memberID int) error
}

// CollectionSvcFacade manages collection periods and member payments.
type CollectionSvcFacade interface {
	// CreatePeriod opens a collection period keyed by its date.
	CreatePeriod(ctx context.Context, userID string, req dto.CreatePeriodRequest) (*domain.CollectionPeriod, error)

	// GetPeriod retrieves a period by id.
	GetPeriod(ctx context.Context, userID string, periodID string) (*domain.CollectionPeriod, error)

	// ListPeriods returns all periods in date order.
	ListPeriods(ctx context.Context, userID string) ([]domain.CollectionPeriod, error)

	// RecordPayment records a member contribution into a period. At most one
	// payment per (member, period) pair; duplicates are rejected.
	RecordPayment(ctx context.Context, userID string, periodID string, req dto.RecordPaymentRequest) (*domain.CollectionPeriod, error)

	// UpdatePayment changes the amount of a member's payment in a period.
	UpdatePayment(ctx context.Context, userID string, periodID string, memberID int, req dto.UpdatePaymentRequest) (*domain.CollectionPeriod, error)

	// RemovePayment removes a member's payment from a period.
	RemovePayment(ctx context.Context, userID string, periodID string, memberID int) (*domain.CollectionPeriod, error)
}

// LoanSvcFacade manages the loan lifecycle, repayments and penalties.
type LoanSvcFacade interface {
	// RequestLoan files a PENDING loan application.
	RequestLoan(ctx context.Context, userID string, req dto.RequestLoanRequest) (*domain.Loan, error)

	// ApproveLoan transitions a PENDING loan to APPROVED and stamps the
	// approval date and disbursement period.
	ApproveLoan(ctx context.Context, userID string, loanID string, req dto.ApproveLoanRequest) (*domain.Loan, error)

	// RejectLoan transitions a PENDING loan to REJECTED (terminal).
	RejectLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error)

	// GetLoan retrieves a loan by id.
	GetLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error)

	// ListLoans returns all loans.
	ListLoans(ctx context.Context, userID string) ([]domain.Loan, error)

	// DeleteLoan removes a loan, cascading to its repayments and penalties.
	DeleteLoan(ctx context.Context, userID string, loanID string) error

	// AddRepayment records a repayment and settles the loan status.
	AddRepayment(ctx context.Context, userID string, loanID string, req dto.AddRepaymentRequest) (*domain.Repayment, error)

	// RemoveRepayment deletes a repayment and re-settles the loan status,
	// reverting PAID to APPROVED when the total no longer covers the due.
	RemoveRepayment(ctx context.Context, userID string, loanID string, repaymentID string) error

	// ListRepayments returns the repayments for a loan.
	ListRepayments(ctx context.Context, userID string, loanID string) ([]domain.Repayment, error)

	// ListPenalties returns the penalties for a loan.
	ListPenalties(ctx context.Context, userID string, loanID string) ([]domain.Penalty, error)

	// AssessPenalties re-scans all active loans for missed installments and
	// records penalties for newly missed ones. Safe to re-run; already
	// assessed installments are never penalized twice.
	AssessPenalties(ctx context.Context, userID string) ([]domain.Penalty, error)
}

// DividendSvcFacade manages dividend distribution runs.
type DividendSvcFacade interface {
	// Distribute runs a dividend distribution over the live interest pool
	// and records it; the live pool resets to zero.
	Distribute(ctx context.Context, userID string, req dto.DistributeDividendsRequest) (*domain.DividendDistribution, error)

	// ListDistributions returns the historical distribution records.
	ListDistributions(ctx context.Context, userID string) ([]domain.DividendDistribution, error)
}

// ArchiveSvcFacade manages yearly archives.
type ArchiveSvcFacade interface {
	// ArchiveYear freezes one calendar year's entities into an archive and
	// removes them from the live dataset.
	ArchiveYear(ctx context.Context, userID string, year int) (*domain.YearlyArchive, error)

	// GetArchive retrieves one archive with full detail.
	GetArchive(ctx context.Context, userID string, year int) (*domain.YearlyArchive, error)

	// ListArchives returns all archives, newest first.
	ListArchives(ctx context.Context, userID string) ([]domain.YearlyArchive, error)

	// ExportArchiveCSV renders an archive's period ledger as CSV.
	ExportArchiveCSV(ctx context.Context, userID string, year int) ([]byte, error)
}

// SummarySvcFacade derives the aggregate view of the fund.
type SummarySvcFacade interface {
	// GetSummary returns balances, the live pool, the period ledger and
	// per-member standings.
	GetSummary(ctx context.Context, userID string) (*dto.SummaryResponse, error)
}
