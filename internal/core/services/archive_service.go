package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
	"github.com/shopspring/decimal"
)

// archiveService freezes one calendar year's records into an archive and
// removes them from the live dataset.
type archiveService struct {
	snapshots portssvc.SnapshotSvc
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(snapshots portssvc.SnapshotSvc) portssvc.ArchiveSvcFacade {
	return &archiveService{snapshots: snapshots}
}

var _ portssvc.ArchiveSvcFacade = (*archiveService)(nil)

// ArchiveYear moves a year's settled records out of the live snapshot.
// Periods and distributions are archived by date. Loans are archived only
// once terminal (PAID or REJECTED); an APPROVED loan stays live with all of
// its repayments and penalties so it can still be settled. The net cash
// effect of everything removed rolls into BeginningBalance, leaving the
// derived CurrentBalance unchanged.
func (s *archiveService) ArchiveYear(ctx context.Context, userID string, year int) (*domain.YearlyArchive, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var created domain.YearlyArchive
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		for _, a := range snap.Archives {
			if a.Year == year {
				return fmt.Errorf("%w: year %d is already archived", apperrors.ErrDuplicate, year)
			}
		}

		summary := summarizeYear(snap, year)
		summary.ClosingBalance = finance.CurrentBalance(snap)

		var archivedPeriods, livePeriods []domain.CollectionPeriod
		for _, p := range snap.Periods {
			if p.Date.Year() == year {
				archivedPeriods = append(archivedPeriods, p)
			} else {
				livePeriods = append(livePeriods, p)
			}
		}

		archivedLoanIDs := make(map[string]bool)
		var archivedLoans, liveLoans []domain.Loan
		for _, l := range snap.Loans {
			terminal := l.Status == domain.LoanPaid || l.Status == domain.LoanRejected
			if l.DateIssued.Year() == year && terminal {
				archivedLoanIDs[l.LoanID] = true
				archivedLoans = append(archivedLoans, l)
			} else {
				liveLoans = append(liveLoans, l)
			}
		}

		var archivedRepayments, liveRepayments []domain.Repayment
		for _, r := range snap.Repayments {
			if archivedLoanIDs[r.LoanID] {
				archivedRepayments = append(archivedRepayments, r)
			} else {
				liveRepayments = append(liveRepayments, r)
			}
		}

		var archivedPenalties, livePenalties []domain.Penalty
		for _, p := range snap.Penalties {
			if archivedLoanIDs[p.LoanID] {
				archivedPenalties = append(archivedPenalties, p)
			} else {
				livePenalties = append(livePenalties, p)
			}
		}

		var archivedDistributions, liveDistributions []domain.DividendDistribution
		for _, d := range snap.Distributions {
			if d.Date.Year() == year {
				archivedDistributions = append(archivedDistributions, d)
			} else {
				liveDistributions = append(liveDistributions, d)
			}
		}

		if len(archivedPeriods) == 0 && len(archivedLoans) == 0 && len(archivedDistributions) == 0 {
			return fmt.Errorf("%w: no records dated in %d to archive", apperrors.ErrValidation, year)
		}

		// Roll the removed cash flows into the carried-over balance:
		// archived collections and repayments came in, archived funded
		// principal went out.
		adjustment := decimal.Zero
		for _, p := range archivedPeriods {
			for _, pay := range p.Payments {
				adjustment = adjustment.Add(pay.Amount)
			}
		}
		for _, r := range archivedRepayments {
			adjustment = adjustment.Add(r.Amount)
		}
		for _, l := range archivedLoans {
			if l.Status == domain.LoanPaid {
				adjustment = adjustment.Sub(l.Amount)
			}
		}
		snap.BeginningBalance = snap.BeginningBalance.Add(adjustment)

		snap.Periods = livePeriods
		snap.Loans = liveLoans
		snap.Repayments = liveRepayments
		snap.Penalties = livePenalties
		snap.Distributions = liveDistributions

		created = domain.YearlyArchive{
			Year:          year,
			CreatedAt:     time.Now().UTC(),
			Periods:       archivedPeriods,
			Loans:         archivedLoans,
			Repayments:    archivedRepayments,
			Penalties:     archivedPenalties,
			Distributions: archivedDistributions,
			Summary:       summary,
		}
		snap.Archives = append(snap.Archives, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Year archived",
		slog.Int("year", year),
		slog.Int("periods", len(created.Periods)),
		slog.Int("loans", len(created.Loans)),
	)
	return &created, nil
}

// summarizeYear computes the activity totals for a calendar year from the
// live snapshot, before anything is removed. Outstanding loans issued in the
// year are counted here even though they stay live.
func summarizeYear(snap *domain.Snapshot, year int) domain.ArchiveSummary {
	var summary domain.ArchiveSummary
	summary.TotalCollected = decimal.Zero
	summary.TotalDisbursed = decimal.Zero
	summary.TotalRepaid = decimal.Zero
	summary.TotalPenalties = decimal.Zero
	summary.TotalDistributed = decimal.Zero

	for _, p := range snap.Periods {
		if p.Date.Year() != year {
			continue
		}
		summary.PeriodCount++
		for _, pay := range p.Payments {
			summary.TotalCollected = summary.TotalCollected.Add(pay.Amount)
		}
	}
	for _, l := range snap.Loans {
		if l.DateIssued.Year() != year {
			continue
		}
		summary.LoanCount++
		if l.Status == domain.LoanApproved || l.Status == domain.LoanPaid {
			summary.TotalDisbursed = summary.TotalDisbursed.Add(l.Amount)
		}
		if l.Status == domain.LoanApproved {
			summary.OutstandingLoans++
		}
	}
	for _, r := range snap.Repayments {
		if r.Date.Year() == year {
			summary.TotalRepaid = summary.TotalRepaid.Add(r.Amount)
		}
	}
	for _, p := range snap.Penalties {
		if p.Date.Year() == year {
			summary.TotalPenalties = summary.TotalPenalties.Add(p.Amount)
		}
	}
	for _, d := range snap.Distributions {
		if d.Date.Year() == year {
			summary.DistributionCount++
			summary.TotalDistributed = summary.TotalDistributed.Add(d.TotalInterestPool)
		}
	}
	return summary
}

func (s *archiveService) GetArchive(ctx context.Context, userID string, year int) (*domain.YearlyArchive, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range snap.Archives {
		if snap.Archives[i].Year == year {
			return &snap.Archives[i], nil
		}
	}
	return nil, fmt.Errorf("%w: archive for year %d", apperrors.ErrNotFound, year)
}

func (s *archiveService) ListArchives(ctx context.Context, userID string) ([]domain.YearlyArchive, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	archives := make([]domain.YearlyArchive, len(snap.Archives))
	copy(archives, snap.Archives)
	sort.Slice(archives, func(i, j int) bool { return archives[i].Year > archives[j].Year })
	return archives, nil
}

// ExportArchiveCSV renders the archived year's period ledger as CSV. The
// ledger is rebuilt from the archived entities alone, so the opening balance
// of the first row is zero rather than the fund's balance at the time.
func (s *archiveService) ExportArchiveCSV(ctx context.Context, userID string, year int) ([]byte, error) {
	archive, err := s.GetArchive(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	ledgerSnap := &domain.Snapshot{
		Periods:    archive.Periods,
		Loans:      archive.Loans,
		Repayments: archive.Repayments,
	}
	entries := finance.PeriodLedger(ledgerSnap)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"period_id", "date", "opening_balance", "collections", "disbursements", "repayments", "closing_balance"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.PeriodID,
			e.Date.Format("2006-01-02"),
			e.OpeningBalance.StringFixed(2),
			e.Collections.StringFixed(2),
			e.Disbursements.StringFixed(2),
			e.Repayments.StringFixed(2),
			e.ClosingBalance.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
