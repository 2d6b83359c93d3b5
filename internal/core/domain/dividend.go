package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberDividend is one member's cut of a dividend distribution.
type MemberDividend struct {
	MemberID       int             `json:"memberID"`
	Shares         decimal.Decimal `json:"shares"`
	DividendAmount decimal.Decimal `json:"dividendAmount"` // Zero when forfeited
	Forfeited      bool            `json:"forfeited"`
}

// DividendDistribution is an append-only historical record of one dividend
// run. Creating it resets the live interest pool to zero.
type DividendDistribution struct {
	DistributionID    string           `json:"distributionID"` // Primary Key (UUID)
	Date              time.Time        `json:"date"`
	TotalInterestPool decimal.Decimal  `json:"totalInterestPool"`
	TotalShares       decimal.Decimal  `json:"totalShares"`
	PerShareDividend  decimal.Decimal  `json:"perShareDividend"`
	Distributions     []MemberDividend `json:"distributions"`
	PeriodsCovered    []string         `json:"periodsCovered"` // Period IDs the pool accrued over
}
