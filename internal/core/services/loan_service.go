package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
	"github.com/shopspring/decimal"
)

// loanService manages the loan lifecycle, repayments and penalties.
type loanService struct {
	snapshots portssvc.SnapshotSvc
}

// NewLoanService creates a new LoanService.
func NewLoanService(snapshots portssvc.SnapshotSvc) portssvc.LoanSvcFacade {
	return &loanService{snapshots: snapshots}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func (s *loanService) RequestLoan(ctx context.Context, userID string, req dto.RequestLoanRequest) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be positive", apperrors.ErrValidation)
	}
	if req.RepaymentPlan != domain.PlanMonthly && req.RepaymentPlan != domain.PlanCutOff {
		return nil, fmt.Errorf("%w: unknown repayment plan %q", apperrors.ErrValidation, req.RepaymentPlan)
	}
	interestRate := decimal.Zero
	if req.InterestRate != nil && !req.InterestRate.IsZero() {
		if req.InterestRate.IsNegative() || req.InterestRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: interest rate must be within [0, 1]", apperrors.ErrValidation)
		}
		// Each plan carries a fixed rate convention; a rate from the wrong
		// plan is a data-entry mistake, not a custom price.
		if conventional := finance.RateForPlan(req.RepaymentPlan); !req.InterestRate.Equal(conventional) {
			return nil, fmt.Errorf("%w: interest rate %s does not match the %s plan rate %s",
				apperrors.ErrValidation, req.InterestRate.String(), req.RepaymentPlan, conventional.String())
		}
		interestRate = *req.InterestRate
	}
	penaltyRate := decimal.Zero
	if req.PenaltyRate != nil {
		if req.PenaltyRate.IsNegative() || req.PenaltyRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: penalty rate must be within [0, 1]", apperrors.ErrValidation)
		}
		penaltyRate = *req.PenaltyRate
	}

	now := time.Now().UTC()
	dateIssued := now
	if req.DateIssued != nil {
		dateIssued = req.DateIssued.UTC()
	}

	var created domain.Loan
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		if snap.FindMember(req.MemberID) == nil {
			return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, req.MemberID)
		}
		created = domain.Loan{
			LoanID:        uuid.NewString(),
			MemberID:      req.MemberID,
			Amount:        req.Amount,
			DateIssued:    dateIssued,
			Status:        domain.LoanPending,
			RepaymentPlan: req.RepaymentPlan,
			InterestRate:  interestRate,
			TermCount:     req.TermCount,
			PenaltyRate:   penaltyRate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		snap.Loans = append(snap.Loans, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan requested",
		slog.String("loan_id", created.LoanID),
		slog.Int("member_id", created.MemberID),
		slog.String("amount", created.Amount.String()),
		slog.String("plan", string(created.RepaymentPlan)),
	)
	return &created, nil
}

func (s *loanService) ApproveLoan(ctx context.Context, userID string, loanID string, req dto.ApproveLoanRequest) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var approved domain.Loan
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		loan := snap.FindLoan(loanID)
		if loan == nil {
			return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		if loan.Status != domain.LoanPending {
			return fmt.Errorf("%w: loan %s is %s, only PENDING loans can be approved", apperrors.ErrValidation, loanID, loan.Status)
		}

		now := time.Now().UTC()
		dateApproved := now
		if req.DateApproved != nil {
			dateApproved = req.DateApproved.UTC()
		}

		periodID := latestPeriodID(snap)
		if req.DisbursementPeriodID != nil {
			if snap.FindPeriod(*req.DisbursementPeriodID) == nil {
				return fmt.Errorf("%w: collection period %s", apperrors.ErrNotFound, *req.DisbursementPeriodID)
			}
			periodID = *req.DisbursementPeriodID
		}

		loan.Status = domain.LoanApproved
		loan.DateApproved = &dateApproved
		loan.DisbursementPeriodID = periodID
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = userID

		refreshLoans(snap, now)
		approved = *loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan approved", slog.String("loan_id", loanID), slog.String("disbursement_period", approved.DisbursementPeriodID))
	return &approved, nil
}

func (s *loanService) RejectLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var rejected domain.Loan
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		loan := snap.FindLoan(loanID)
		if loan == nil {
			return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		if loan.Status != domain.LoanPending {
			return fmt.Errorf("%w: loan %s is %s, only PENDING loans can be rejected", apperrors.ErrValidation, loanID, loan.Status)
		}
		loan.Status = domain.LoanRejected
		loan.LastUpdatedAt = time.Now().UTC()
		loan.LastUpdatedBy = userID
		rejected = *loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan rejected", slog.String("loan_id", loanID))
	return &rejected, nil
}

func (s *loanService) GetLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	loan := snap.FindLoan(loanID)
	if loan == nil {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	return loan, nil
}

func (s *loanService) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Loans, nil
}

// DeleteLoan removes a loan and everything hanging off it. Repayments and
// penalties for the loan go with it so the derived balances stay coherent.
func (s *loanService) DeleteLoan(ctx context.Context, userID string, loanID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		if snap.FindLoan(loanID) == nil {
			return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}

		loans := snap.Loans[:0]
		for _, l := range snap.Loans {
			if l.LoanID != loanID {
				loans = append(loans, l)
			}
		}
		snap.Loans = loans

		repayments := snap.Repayments[:0]
		for _, r := range snap.Repayments {
			if r.LoanID != loanID {
				repayments = append(repayments, r)
			}
		}
		snap.Repayments = repayments

		penalties := snap.Penalties[:0]
		for _, p := range snap.Penalties {
			if p.LoanID != loanID {
				penalties = append(penalties, p)
			}
		}
		snap.Penalties = penalties
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Loan deleted with repayments and penalties", slog.String("loan_id", loanID))
	return nil
}

func (s *loanService) AddRepayment(ctx context.Context, userID string, loanID string, req dto.AddRepaymentRequest) (*domain.Repayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: repayment amount must be positive", apperrors.ErrValidation)
	}

	var created domain.Repayment
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		loan := snap.FindLoan(loanID)
		if loan == nil {
			return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		if loan.Status != domain.LoanApproved {
			return fmt.Errorf("%w: loan %s is %s, repayments apply to APPROVED loans", apperrors.ErrValidation, loanID, loan.Status)
		}

		now := time.Now().UTC()
		date := now
		if req.Date != nil {
			date = req.Date.UTC()
		}
		periodID := latestPeriodID(snap)
		if req.PeriodID != nil {
			if snap.FindPeriod(*req.PeriodID) == nil {
				return fmt.Errorf("%w: collection period %s", apperrors.ErrNotFound, *req.PeriodID)
			}
			periodID = *req.PeriodID
		}

		created = domain.Repayment{
			RepaymentID: uuid.NewString(),
			LoanID:      loanID,
			MemberID:    loan.MemberID,
			Amount:      req.Amount,
			Date:        date,
			PeriodID:    periodID,
		}
		snap.Repayments = append(snap.Repayments, created)

		// Assess before settling so a payment that covers principal and
		// interest but not a freshly missed installment does not close the
		// loan early.
		refreshLoans(snap, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Repayment recorded",
		slog.String("loan_id", loanID),
		slog.String("repayment_id", created.RepaymentID),
		slog.String("amount", created.Amount.String()),
	)
	return &created, nil
}

func (s *loanService) RemoveRepayment(ctx context.Context, userID string, loanID string, repaymentID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		if snap.FindLoan(loanID) == nil {
			return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		found := false
		repayments := snap.Repayments[:0]
		for _, r := range snap.Repayments {
			if r.RepaymentID == repaymentID && r.LoanID == loanID {
				found = true
				continue
			}
			repayments = append(repayments, r)
		}
		if !found {
			return fmt.Errorf("%w: repayment %s on loan %s", apperrors.ErrNotFound, repaymentID, loanID)
		}
		snap.Repayments = repayments

		// Re-settle; a PAID loan whose total no longer covers the due
		// reverts to APPROVED.
		refreshLoans(snap, time.Now().UTC())
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Repayment removed", slog.String("loan_id", loanID), slog.String("repayment_id", repaymentID))
	return nil
}

func (s *loanService) ListRepayments(ctx context.Context, userID string, loanID string) ([]domain.Repayment, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap.FindLoan(loanID) == nil {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	return snap.LoanRepayments(loanID), nil
}

func (s *loanService) ListPenalties(ctx context.Context, userID string, loanID string) ([]domain.Penalty, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap.FindLoan(loanID) == nil {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	return snap.LoanPenalties(loanID), nil
}

func (s *loanService) AssessPenalties(ctx context.Context, userID string) ([]domain.Penalty, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var assessed []domain.Penalty
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		assessed = refreshLoans(snap, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(assessed) > 0 {
		total := decimal.Zero
		for _, p := range assessed {
			total = total.Add(p.Amount)
		}
		logger.Info("Penalties assessed",
			slog.Int("count", len(assessed)),
			slog.String("total", total.String()),
		)
	}
	return assessed, nil
}
