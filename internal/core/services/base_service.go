package services

import (
	"sort"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
)

// refreshLoans is the sweep run after every state change that can move a
// loan: assess penalties for newly missed installments, then settle each
// loan's status against its repayments and the updated penalty set. It
// returns the newly assessed penalties.
func refreshLoans(snap *domain.Snapshot, now time.Time) []domain.Penalty {
	newPenalties := finance.AssessSnapshot(snap, now)
	snap.Penalties = append(snap.Penalties, newPenalties...)

	for i := range snap.Loans {
		finance.ReconcileLoanStatus(&snap.Loans[i], snap.Repayments, snap.Penalties, now)
	}
	return newPenalties
}

// latestPeriodID returns the id of the most recent collection period, or
// the empty string when none exist.
func latestPeriodID(snap *domain.Snapshot) string {
	id := ""
	var latest time.Time
	for _, p := range snap.Periods {
		if id == "" || p.Date.After(latest) {
			id = p.PeriodID
			latest = p.Date
		}
	}
	return id
}

// sortPeriodsByDate returns the snapshot's periods ordered by date.
func sortPeriodsByDate(snap *domain.Snapshot) []domain.CollectionPeriod {
	periods := make([]domain.CollectionPeriod, len(snap.Periods))
	copy(periods, snap.Periods)
	sort.Slice(periods, func(i, j int) bool { return periods[i].Date.Before(periods[j].Date) })
	return periods
}
