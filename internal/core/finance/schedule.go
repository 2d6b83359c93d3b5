// Package finance holds the cooperative's loan and dividend arithmetic as
// pure, stateless functions over domain values. Nothing in here performs I/O
// or reads the wall clock; callers pass explicit reference dates.
package finance

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
)

const (
	// Cut-off collection days, by cooperative convention.
	firstCutOffDay  = 10
	secondCutOffDay = 25
)

// NormalizeDueDate pins a date to noon UTC so that later day-level
// comparisons are unaffected by timezone or DST boundaries.
func NormalizeDueDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// InstallmentDueDates computes the ordered due dates for a loan schedule.
// For PlanCutOff, count is the number of bi-monthly installments, anchored
// to the 10th/25th cadence starting at the first cut-off on or after start.
// For PlanMonthly there is exactly one due date, count calendar months after
// start, clamped to the last valid day of the target month.
func InstallmentDueDates(start time.Time, count int, plan domain.RepaymentPlan) []time.Time {
	if count <= 0 {
		return nil
	}
	switch plan {
	case domain.PlanMonthly:
		return []time.Time{addMonthsClamped(NormalizeDueDate(start), count)}
	case domain.PlanCutOff:
		dates := make([]time.Time, 0, count)
		due := firstCutOffOnOrAfter(start)
		for i := 0; i < count; i++ {
			dates = append(dates, due)
			due = nextCutOff(due)
		}
		return dates
	default:
		return nil
	}
}

// ScheduleForLoan generates the loan's full schedule from its approval date
// (or issue date when it was never stamped as approved).
func ScheduleForLoan(loan domain.Loan) []time.Time {
	start := loan.DateIssued
	if loan.DateApproved != nil {
		start = *loan.DateApproved
	}
	return InstallmentDueDates(start, InstallmentCount(loan), loan.RepaymentPlan)
}

// firstCutOffOnOrAfter finds the first 10th-or-25th on or after start.
func firstCutOffOnOrAfter(start time.Time) time.Time {
	t := NormalizeDueDate(start)
	switch {
	case t.Day() <= firstCutOffDay:
		return time.Date(t.Year(), t.Month(), firstCutOffDay, 12, 0, 0, 0, time.UTC)
	case t.Day() <= secondCutOffDay:
		return time.Date(t.Year(), t.Month(), secondCutOffDay, 12, 0, 0, 0, time.UTC)
	default:
		next := t.AddDate(0, 1, 0)
		return time.Date(next.Year(), next.Month(), firstCutOffDay, 12, 0, 0, 0, time.UTC)
	}
}

// nextCutOff alternates 10th -> 25th same month -> 10th next month.
func nextCutOff(due time.Time) time.Time {
	if due.Day() == firstCutOffDay {
		return time.Date(due.Year(), due.Month(), secondCutOffDay, 12, 0, 0, 0, time.UTC)
	}
	next := due.AddDate(0, 1, 0)
	return time.Date(next.Year(), next.Month(), firstCutOffDay, 12, 0, 0, 0, time.UTC)
}

// addMonthsClamped advances by whole calendar months, clamping the day to
// the target month's length (Jan 31 + 1 month -> Feb 28/29, not Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 12, 0, 0, 0, time.UTC)
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 12, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
