package finance

import (
	"sort"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodLedgerEntry is one row of the per-period running ledger.
type PeriodLedgerEntry struct {
	PeriodID       string          `json:"periodID"`
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Collections    decimal.Decimal `json:"collections"`
	Disbursements  decimal.Decimal `json:"disbursements"`
	Repayments     decimal.Decimal `json:"repayments"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// CurrentBalance derives the fund balance from first principles:
// collections plus repayments minus the principal of funded loans.
// The stored value is never trusted; this runs on every load and mutation.
func CurrentBalance(s *domain.Snapshot) decimal.Decimal {
	balance := s.BeginningBalance
	for _, p := range s.Periods {
		for _, pay := range p.Payments {
			balance = balance.Add(pay.Amount)
		}
	}
	for _, r := range s.Repayments {
		balance = balance.Add(r.Amount)
	}
	for _, loan := range s.Loans {
		if loan.Status == domain.LoanApproved || loan.Status == domain.LoanPaid {
			balance = balance.Sub(loan.Amount)
		}
	}
	return balance
}

// LiveInterestPool derives the undistributed interest pool: interest earned
// by funded loans minus the pools already paid out as dividends.
func LiveInterestPool(s *domain.Snapshot) decimal.Decimal {
	pool := decimal.Zero
	for _, loan := range s.Loans {
		pool = pool.Add(InterestEarned(loan))
	}
	for _, d := range s.Distributions {
		pool = pool.Sub(d.TotalInterestPool)
	}
	if pool.IsNegative() {
		return decimal.Zero
	}
	return pool
}

// PeriodLedger derives the per-period ledger rows in date order. Each row
// opens with the previous row's closing balance (the beginning balance for
// the first row) and closes with opening + collections + repayments −
// disbursements.
func PeriodLedger(s *domain.Snapshot) []PeriodLedgerEntry {
	periods := make([]domain.CollectionPeriod, len(s.Periods))
	copy(periods, s.Periods)
	sort.Slice(periods, func(i, j int) bool { return periods[i].Date.Before(periods[j].Date) })

	disbursed := make(map[string]decimal.Decimal)
	for _, loan := range s.Loans {
		if loan.Status != domain.LoanApproved && loan.Status != domain.LoanPaid {
			continue
		}
		if loan.DisbursementPeriodID == "" {
			continue
		}
		disbursed[loan.DisbursementPeriodID] = disbursed[loan.DisbursementPeriodID].Add(loan.Amount)
	}

	repaid := make(map[string]decimal.Decimal)
	for _, r := range s.Repayments {
		repaid[r.PeriodID] = repaid[r.PeriodID].Add(r.Amount)
	}

	entries := make([]PeriodLedgerEntry, 0, len(periods))
	opening := s.BeginningBalance
	for _, p := range periods {
		collections := decimal.Zero
		for _, pay := range p.Payments {
			collections = collections.Add(pay.Amount)
		}
		entry := PeriodLedgerEntry{
			PeriodID:       p.PeriodID,
			Date:           p.Date,
			OpeningBalance: opening,
			Collections:    collections,
			Disbursements:  disbursed[p.PeriodID],
			Repayments:     repaid[p.PeriodID],
		}
		entry.ClosingBalance = entry.OpeningBalance.
			Add(entry.Collections).
			Add(entry.Repayments).
			Sub(entry.Disbursements)
		entries = append(entries, entry)
		opening = entry.ClosingBalance
	}
	return entries
}

// Recompute re-derives every cached value on the snapshot: each period's
// TotalCollected, the current balance, and the live interest pool. Services
// call this after every committed mutation and after every load.
func Recompute(s *domain.Snapshot) {
	for i := range s.Periods {
		total := decimal.Zero
		for _, pay := range s.Periods[i].Payments {
			total = total.Add(pay.Amount)
		}
		s.Periods[i].TotalCollected = total
	}
	s.CurrentBalance = CurrentBalance(s)
	s.InterestPool = LiveInterestPool(s)
}
