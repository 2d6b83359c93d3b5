package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
	"github.com/shopspring/decimal"
)

// collectionService manages collection periods and member payments.
type collectionService struct {
	snapshots portssvc.SnapshotSvc
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(snapshots portssvc.SnapshotSvc) portssvc.CollectionSvcFacade {
	return &collectionService{snapshots: snapshots}
}

var _ portssvc.CollectionSvcFacade = (*collectionService)(nil)

func (s *collectionService) CreatePeriod(ctx context.Context, userID string, req dto.CreatePeriodRequest) (*domain.CollectionPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DefaultContribution.IsNegative() {
		return nil, fmt.Errorf("%w: default contribution cannot be negative", apperrors.ErrValidation)
	}

	date := finance.NormalizeDueDate(req.Date)
	periodID := domain.PeriodIDForDate(date)

	var created domain.CollectionPeriod
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		if snap.FindPeriod(periodID) != nil {
			return fmt.Errorf("%w: collection period %s", apperrors.ErrDuplicate, periodID)
		}
		created = domain.CollectionPeriod{
			PeriodID:            periodID,
			Date:                date,
			TotalCollected:      decimal.Zero,
			DefaultContribution: req.DefaultContribution,
		}
		snap.Periods = append(snap.Periods, created)

		// A new period can advance the assessment reference date.
		refreshLoans(snap, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Collection period created", slog.String("period_id", periodID))
	return &created, nil
}

func (s *collectionService) GetPeriod(ctx context.Context, userID string, periodID string) (*domain.CollectionPeriod, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	period := snap.FindPeriod(periodID)
	if period == nil {
		return nil, fmt.Errorf("%w: collection period %s", apperrors.ErrNotFound, periodID)
	}
	return period, nil
}

func (s *collectionService) ListPeriods(ctx context.Context, userID string) ([]domain.CollectionPeriod, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sortPeriodsByDate(snap), nil
}

// RecordPayment adds a member contribution to a period. The uniqueness
// invariant (one payment per member per period) is enforced here: a
// duplicate is rejected before any state changes.
func (s *collectionService) RecordPayment(ctx context.Context, userID string, periodID string, req dto.RecordPaymentRequest) (*domain.CollectionPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	var updated domain.CollectionPeriod
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		period := snap.FindPeriod(periodID)
		if period == nil {
			return fmt.Errorf("%w: collection period %s", apperrors.ErrNotFound, periodID)
		}
		if snap.FindMember(req.MemberID) == nil {
			return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, req.MemberID)
		}
		for _, p := range period.Payments {
			if p.MemberID == req.MemberID {
				return fmt.Errorf("%w: member %d already paid for period %s", apperrors.ErrDuplicate, req.MemberID, periodID)
			}
		}

		date := period.Date
		if req.Date != nil {
			date = *req.Date
		}
		period.Payments = append(period.Payments, domain.Payment{
			MemberID:         req.MemberID,
			Amount:           req.Amount,
			Date:             date,
			CollectionPeriod: periodID,
		})
		period.TotalCollected = period.TotalCollected.Add(req.Amount)

		refreshLoans(snap, time.Now().UTC())
		updated = *period
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("period_id", periodID),
		slog.Int("member_id", req.MemberID),
		slog.String("amount", req.Amount.String()),
	)
	return &updated, nil
}

func (s *collectionService) UpdatePayment(ctx context.Context, userID string, periodID string, memberID int, req dto.UpdatePaymentRequest) (*domain.CollectionPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	var updated domain.CollectionPeriod
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		period := snap.FindPeriod(periodID)
		if period == nil {
			return fmt.Errorf("%w: collection period %s", apperrors.ErrNotFound, periodID)
		}
		for i := range period.Payments {
			if period.Payments[i].MemberID == memberID {
				period.TotalCollected = period.TotalCollected.
					Sub(period.Payments[i].Amount).
					Add(req.Amount)
				period.Payments[i].Amount = req.Amount
				updated = *period
				return nil
			}
		}
		return fmt.Errorf("%w: no payment by member %d in period %s", apperrors.ErrNotFound, memberID, periodID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment updated", slog.String("period_id", periodID), slog.Int("member_id", memberID))
	return &updated, nil
}

func (s *collectionService) RemovePayment(ctx context.Context, userID string, periodID string, memberID int) (*domain.CollectionPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated domain.CollectionPeriod
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		period := snap.FindPeriod(periodID)
		if period == nil {
			return fmt.Errorf("%w: collection period %s", apperrors.ErrNotFound, periodID)
		}
		for i := range period.Payments {
			if period.Payments[i].MemberID == memberID {
				period.TotalCollected = period.TotalCollected.Sub(period.Payments[i].Amount)
				period.Payments = append(period.Payments[:i], period.Payments[i+1:]...)
				updated = *period
				return nil
			}
		}
		return fmt.Errorf("%w: no payment by member %d in period %s", apperrors.ErrNotFound, memberID, periodID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment removed", slog.String("period_id", periodID), slog.Int("member_id", memberID))
	return &updated, nil
}
