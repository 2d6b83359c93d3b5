package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single member contribution recorded into a collection period.
// At most one payment exists per (member, period) pair.
type Payment struct {
	MemberID         int             `json:"memberID"`
	Amount           decimal.Decimal `json:"amount"` // Positive value
	Date             time.Time       `json:"date"`
	CollectionPeriod string          `json:"collectionPeriod"` // FK -> CollectionPeriod.PeriodID
}

// CollectionPeriod is one scheduled collection date (bi-monthly cut-off
// convention: the 10th and 25th). TotalCollected is a maintained cache of
// the sum of Payments amounts and is re-derived on every recompute.
type CollectionPeriod struct {
	PeriodID            string          `json:"periodID"` // Date-keyed, e.g. "2025-01-10"
	Date                time.Time       `json:"date"`
	TotalCollected      decimal.Decimal `json:"totalCollected"`
	Payments            []Payment       `json:"payments"`
	DefaultContribution decimal.Decimal `json:"defaultContribution,omitempty"` // Suggested per-member amount, optional
}

// PeriodIDForDate derives the canonical period identifier for a collection date.
func PeriodIDForDate(date time.Time) string {
	return date.Format("2006-01-02")
}
