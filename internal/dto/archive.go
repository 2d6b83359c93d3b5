package dto

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ArchiveYearRequest triggers archiving of one calendar year.
type ArchiveYearRequest struct {
	Year int `json:"year" binding:"required,min=2000"`
}

// ArchiveSummaryResponse mirrors domain.ArchiveSummary.
type ArchiveSummaryResponse struct {
	TotalCollected    decimal.Decimal `json:"totalCollected"`
	TotalDisbursed    decimal.Decimal `json:"totalDisbursed"`
	TotalRepaid       decimal.Decimal `json:"totalRepaid"`
	TotalPenalties    decimal.Decimal `json:"totalPenalties"`
	TotalDistributed  decimal.Decimal `json:"totalDistributed"`
	PeriodCount       int             `json:"periodCount"`
	LoanCount         int             `json:"loanCount"`
	ClosingBalance    decimal.Decimal `json:"closingBalance"`
	OutstandingLoans  int             `json:"outstandingLoans"`
	DistributionCount int             `json:"distributionCount"`
}

// ArchiveResponse defines the data returned for a yearly archive. The full
// entity lists are large, so list endpoints return the summary only; the
// detail endpoint includes everything.
type ArchiveResponse struct {
	Year          int                    `json:"year"`
	CreatedAt     time.Time              `json:"createdAt"`
	Summary       ArchiveSummaryResponse `json:"summary"`
	Periods       []PeriodResponse       `json:"periods,omitempty"`
	Loans         []LoanResponse         `json:"loans,omitempty"`
	Repayments    []RepaymentResponse    `json:"repayments,omitempty"`
	Penalties     []PenaltyResponse      `json:"penalties,omitempty"`
	Distributions []DistributionResponse `json:"distributions,omitempty"`
}

// ToArchiveSummaryResponse converts a domain summary to its DTO.
func ToArchiveSummaryResponse(s domain.ArchiveSummary) ArchiveSummaryResponse {
	return ArchiveSummaryResponse{
		TotalCollected:    s.TotalCollected,
		TotalDisbursed:    s.TotalDisbursed,
		TotalRepaid:       s.TotalRepaid,
		TotalPenalties:    s.TotalPenalties,
		TotalDistributed:  s.TotalDistributed,
		PeriodCount:       s.PeriodCount,
		LoanCount:         s.LoanCount,
		ClosingBalance:    s.ClosingBalance,
		OutstandingLoans:  s.OutstandingLoans,
		DistributionCount: s.DistributionCount,
	}
}

// ToArchiveResponse converts a domain.YearlyArchive to its DTO.
// When detailed is false only the summary is populated.
func ToArchiveResponse(a *domain.YearlyArchive, detailed bool) ArchiveResponse {
	resp := ArchiveResponse{
		Year:      a.Year,
		CreatedAt: a.CreatedAt,
		Summary:   ToArchiveSummaryResponse(a.Summary),
	}
	if !detailed {
		return resp
	}
	resp.Periods = ToListPeriodResponse(a.Periods)
	resp.Loans = ToListLoanResponse(a.Loans, a.Repayments, a.Penalties)
	resp.Repayments = make([]RepaymentResponse, len(a.Repayments))
	for i := range a.Repayments {
		resp.Repayments[i] = ToRepaymentResponse(&a.Repayments[i])
	}
	resp.Penalties = ToListPenaltyResponse(a.Penalties)
	resp.Distributions = ToListDistributionResponse(a.Distributions)
	return resp
}

// ToListArchiveResponse converts archives to summary-only response DTOs.
func ToListArchiveResponse(archives []domain.YearlyArchive) []ArchiveResponse {
	res := make([]ArchiveResponse, len(archives))
	for i := range archives {
		res[i] = ToArchiveResponse(&archives[i], false)
	}
	return res
}
