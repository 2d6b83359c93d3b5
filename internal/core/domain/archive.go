package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArchiveSummary holds the computed totals for one archived year.
type ArchiveSummary struct {
	TotalCollected    decimal.Decimal `json:"totalCollected"`
	TotalDisbursed    decimal.Decimal `json:"totalDisbursed"` // Principal of APPROVED/PAID loans issued in the year
	TotalRepaid       decimal.Decimal `json:"totalRepaid"`
	TotalPenalties    decimal.Decimal `json:"totalPenalties"`
	TotalDistributed  decimal.Decimal `json:"totalDistributed"` // Dividend pools paid out in the year
	PeriodCount       int             `json:"periodCount"`
	LoanCount         int             `json:"loanCount"`
	ClosingBalance    decimal.Decimal `json:"closingBalance"` // Balance carried into the next year
	OutstandingLoans  int             `json:"outstandingLoans"`
	DistributionCount int             `json:"distributionCount"`
}

// YearlyArchive is a frozen snapshot of one calendar year's entities,
// removed from the live dataset when the archive is created.
type YearlyArchive struct {
	Year          int                    `json:"year"`
	CreatedAt     time.Time              `json:"createdAt"`
	Periods       []CollectionPeriod     `json:"periods"`
	Loans         []Loan                 `json:"loans"`
	Repayments    []Repayment            `json:"repayments"`
	Penalties     []Penalty              `json:"penalties"`
	Distributions []DividendDistribution `json:"distributions"`
	Summary       ArchiveSummary         `json:"summary"`
}
