package dto

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DistributeDividendsRequest triggers a dividend run over the live pool.
type DistributeDividendsRequest struct {
	Date *time.Time `json:"date"` // Defaults to now
}

// MemberDividendResponse is one member's line in a distribution.
type MemberDividendResponse struct {
	MemberID       int             `json:"memberID"`
	Shares         decimal.Decimal `json:"shares"`
	DividendAmount decimal.Decimal `json:"dividendAmount"`
	Forfeited      bool            `json:"forfeited"`
}

// DistributionResponse defines the data returned for a dividend distribution.
type DistributionResponse struct {
	DistributionID    string                   `json:"distributionID"`
	Date              time.Time                `json:"date"`
	TotalInterestPool decimal.Decimal          `json:"totalInterestPool"`
	TotalShares       decimal.Decimal          `json:"totalShares"`
	PerShareDividend  decimal.Decimal          `json:"perShareDividend"`
	Distributions     []MemberDividendResponse `json:"distributions"`
	PeriodsCovered    []string                 `json:"periodsCovered"`
}

// ToDistributionResponse converts a domain.DividendDistribution to its DTO.
func ToDistributionResponse(d *domain.DividendDistribution) DistributionResponse {
	members := make([]MemberDividendResponse, len(d.Distributions))
	for i, md := range d.Distributions {
		members[i] = MemberDividendResponse{
			MemberID:       md.MemberID,
			Shares:         md.Shares,
			DividendAmount: md.DividendAmount,
			Forfeited:      md.Forfeited,
		}
	}
	return DistributionResponse{
		DistributionID:    d.DistributionID,
		Date:              d.Date,
		TotalInterestPool: d.TotalInterestPool,
		TotalShares:       d.TotalShares,
		PerShareDividend:  d.PerShareDividend,
		Distributions:     members,
		PeriodsCovered:    d.PeriodsCovered,
	}
}

// ToListDistributionResponse converts distributions to response DTOs.
func ToListDistributionResponse(ds []domain.DividendDistribution) []DistributionResponse {
	res := make([]DistributionResponse, len(ds))
	for i := range ds {
		res[i] = ToDistributionResponse(&ds[i])
	}
	return res
}
