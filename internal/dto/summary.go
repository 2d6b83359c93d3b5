package dto

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	"github.com/shopspring/decimal"
)

// PeriodLedgerEntryResponse is one row of the per-period running ledger.
type PeriodLedgerEntryResponse struct {
	PeriodID       string          `json:"periodID"`
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Collections    decimal.Decimal `json:"collections"`
	Disbursements  decimal.Decimal `json:"disbursements"`
	Repayments     decimal.Decimal `json:"repayments"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// MemberStandingResponse summarizes one member's position in the fund.
type MemberStandingResponse struct {
	MemberID         int             `json:"memberID"`
	Name             string          `json:"name"`
	CommittedShares  decimal.Decimal `json:"committedShares"`
	Forfeited        bool            `json:"forfeited"`
	TotalContributed decimal.Decimal `json:"totalContributed"`
	ActiveLoanCount  int             `json:"activeLoanCount"`
	TotalRepaid      decimal.Decimal `json:"totalRepaid"`
}

// SummaryResponse is the aggregate view of the fund's state.
type SummaryResponse struct {
	BeginningBalance decimal.Decimal             `json:"beginningBalance"`
	CurrentBalance   decimal.Decimal             `json:"currentBalance"`
	InterestPool     decimal.Decimal             `json:"interestPool"`
	MemberCount      int                         `json:"memberCount"`
	ActiveLoanCount  int                         `json:"activeLoanCount"`
	PeriodLedger     []PeriodLedgerEntryResponse `json:"periodLedger"`
	MemberStandings  []MemberStandingResponse    `json:"memberStandings"`
}

// ToPeriodLedgerResponse converts finance ledger entries to response DTOs.
func ToPeriodLedgerResponse(entries []finance.PeriodLedgerEntry) []PeriodLedgerEntryResponse {
	res := make([]PeriodLedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = PeriodLedgerEntryResponse{
			PeriodID:       e.PeriodID,
			Date:           e.Date,
			OpeningBalance: e.OpeningBalance,
			Collections:    e.Collections,
			Disbursements:  e.Disbursements,
			Repayments:     e.Repayments,
			ClosingBalance: e.ClosingBalance,
		}
	}
	return res
}
