package finance_test

import (
	"testing"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestInstallmentDueDates_CutOff(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		count int
		want  []time.Time
	}{
		{
			name:  "start before the 10th lands on same month 10th then 25th",
			start: time.Date(2025, time.January, 5, 8, 30, 0, 0, time.UTC),
			count: 2,
			want:  []time.Time{date(2025, time.January, 10), date(2025, time.January, 25)},
		},
		{
			name:  "start between cutoffs lands on the 25th",
			start: date(2025, time.January, 12),
			count: 3,
			want:  []time.Time{date(2025, time.January, 25), date(2025, time.February, 10), date(2025, time.February, 25)},
		},
		{
			name:  "start after the 25th rolls to next month",
			start: date(2025, time.January, 28),
			count: 2,
			want:  []time.Time{date(2025, time.February, 10), date(2025, time.February, 25)},
		},
		{
			name:  "cadence crosses a year boundary",
			start: date(2024, time.December, 20),
			count: 3,
			want:  []time.Time{date(2024, time.December, 25), date(2025, time.January, 10), date(2025, time.January, 25)},
		},
		{
			name:  "zero count yields no dates",
			start: date(2025, time.March, 1),
			count: 0,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.InstallmentDueDates(tt.start, tt.count, domain.PlanCutOff)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstallmentDueDates_Monthly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		count int
		want  time.Time
	}{
		{
			name:  "simple month advance",
			start: date(2025, time.March, 15),
			count: 3,
			want:  date(2025, time.June, 15),
		},
		{
			name:  "clamps Jan 31 into February",
			start: date(2025, time.January, 31),
			count: 1,
			want:  date(2025, time.February, 28),
		},
		{
			name:  "clamps into leap-year February",
			start: date(2024, time.January, 31),
			count: 1,
			want:  date(2024, time.February, 29),
		},
		{
			name:  "crosses a year boundary",
			start: date(2025, time.November, 10),
			count: 4,
			want:  date(2026, time.March, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.InstallmentDueDates(tt.start, tt.count, domain.PlanMonthly)
			require.Len(t, got, 1, "monthly plan is a single balloon due date")
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestInstallmentDueDates_NormalizedToNoon(t *testing.T) {
	start := time.Date(2025, time.January, 5, 23, 59, 59, 0, time.UTC)
	for _, due := range finance.InstallmentDueDates(start, 4, domain.PlanCutOff) {
		assert.Equal(t, 12, due.Hour())
		assert.Equal(t, time.UTC, due.Location())
	}
}

func TestScheduleForLoan_StartsFromApprovalDate(t *testing.T) {
	approved := date(2025, time.February, 3)
	loan := domain.Loan{
		LoanID:        "loan-1",
		DateIssued:    date(2025, time.January, 20),
		DateApproved:  &approved,
		RepaymentPlan: domain.PlanCutOff,
		TermCount:     2,
	}

	got := finance.ScheduleForLoan(loan)
	require.Len(t, got, 4, "two installments per cut-off term month")
	assert.Equal(t, date(2025, time.February, 10), got[0])

	// Without an approval stamp the issue date anchors the schedule.
	loan.DateApproved = nil
	got = finance.ScheduleForLoan(loan)
	require.Len(t, got, 4)
	assert.Equal(t, date(2025, time.January, 25), got[0])
}
