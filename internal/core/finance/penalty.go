package finance

import (
	"sort"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssessLoanPenalties scans one APPROVED loan for installments that fell due
// on or before referenceDate without being covered by repayments, and returns
// penalty records for the newly missed ones. Already-assessed installments
// (matched on the LoanID + InstallmentIndex key) are skipped, so re-running
// the assessment with identical inputs emits nothing.
func AssessLoanPenalties(
	loan domain.Loan,
	repayments []domain.Repayment,
	existing []domain.Penalty,
	periods []domain.CollectionPeriod,
	referenceDate time.Time,
	now time.Time,
) []domain.Penalty {
	if loan.Status != domain.LoanApproved {
		return nil
	}

	schedule := ScheduleForLoan(loan)
	if len(schedule) == 0 {
		return nil
	}

	ref := NormalizeDueDate(referenceDate)
	dueCount := 0
	for _, due := range schedule {
		if !due.After(ref) {
			dueCount++
		}
	}
	if dueCount == 0 {
		return nil
	}

	paidSoFar := decimal.Zero
	for _, r := range repayments {
		if r.LoanID == loan.LoanID && !NormalizeDueDate(r.Date).After(ref) {
			paidSoFar = paidSoFar.Add(r.Amount)
		}
	}

	installment := InstallmentAmount(loan)
	covered := 0
	if installment.IsPositive() {
		covered = int(paidSoFar.Div(installment).IntPart())
	}

	assessed := make(map[int]bool, len(existing))
	for _, p := range existing {
		if p.LoanID == loan.LoanID {
			assessed[p.InstallmentIndex] = true
		}
	}

	penaltyAmount := EffectivePenaltyRate(loan).Mul(installment)

	var newPenalties []domain.Penalty
	for k := covered + 1; k <= dueCount; k++ {
		if assessed[k] {
			continue
		}
		missedDue := schedule[k-1]
		newPenalties = append(newPenalties, domain.Penalty{
			PenaltyID:        domain.PenaltyIDFor(loan.LoanID, k),
			LoanID:           loan.LoanID,
			InstallmentIndex: k,
			Amount:           penaltyAmount,
			Date:             now,
			PeriodID:         penaltyPeriodID(missedDue, periods),
			Reason:           "missed installment",
		})
	}
	return newPenalties
}

// AssessSnapshot runs the penalty assessment for every active loan in the
// snapshot. The reference date is the latest collection period's date, or
// now when no periods exist yet.
func AssessSnapshot(s *domain.Snapshot, now time.Time) []domain.Penalty {
	referenceDate := now
	if latest := latestPeriod(s.Periods); latest != nil {
		referenceDate = latest.Date
	}

	var newPenalties []domain.Penalty
	for _, loan := range s.Loans {
		newPenalties = append(newPenalties, AssessLoanPenalties(
			loan, s.Repayments, s.Penalties, s.Periods, referenceDate, now,
		)...)
	}
	return newPenalties
}

// penaltyPeriodID attributes a missed installment to the first collection
// period strictly after the missed due date, falling back to the latest
// known period, or the missed date itself if no periods exist.
func penaltyPeriodID(missedDue time.Time, periods []domain.CollectionPeriod) string {
	if len(periods) == 0 {
		return domain.PeriodIDForDate(missedDue)
	}
	sorted := make([]domain.CollectionPeriod, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	for _, p := range sorted {
		if NormalizeDueDate(p.Date).After(NormalizeDueDate(missedDue)) {
			return p.PeriodID
		}
	}
	return sorted[len(sorted)-1].PeriodID
}

func latestPeriod(periods []domain.CollectionPeriod) *domain.CollectionPeriod {
	var latest *domain.CollectionPeriod
	for i := range periods {
		if latest == nil || periods[i].Date.After(latest.Date) {
			latest = &periods[i]
		}
	}
	return latest
}
