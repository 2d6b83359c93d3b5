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
)

// dividendService runs dividend distributions over the live interest pool.
type dividendService struct {
	snapshots portssvc.SnapshotSvc
}

// NewDividendService creates a new DividendService.
func NewDividendService(snapshots portssvc.SnapshotSvc) portssvc.DividendSvcFacade {
	return &dividendService{snapshots: snapshots}
}

var _ portssvc.DividendSvcFacade = (*dividendService)(nil)

// Distribute snapshots the live interest pool into an immutable distribution
// record. Recording the distribution is what resets the pool: the live pool
// is derived as interest earned minus pools already distributed.
func (s *dividendService) Distribute(ctx context.Context, userID string, req dto.DistributeDividendsRequest) (*domain.DividendDistribution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var created domain.DividendDistribution
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		pool := finance.LiveInterestPool(snap)
		if !pool.IsPositive() {
			return fmt.Errorf("%w: interest pool is empty, nothing to distribute", apperrors.ErrValidation)
		}
		if len(snap.Members) == 0 {
			return fmt.Errorf("%w: no members to distribute to", apperrors.ErrValidation)
		}

		date := time.Now().UTC()
		if req.Date != nil {
			date = req.Date.UTC()
		}

		created = finance.Distribute(pool, snap.Members, date)
		created.DistributionID = uuid.NewString()
		created.PeriodsCovered = make([]string, 0, len(snap.Periods))
		for _, p := range sortPeriodsByDate(snap) {
			created.PeriodsCovered = append(created.PeriodsCovered, p.PeriodID)
		}
		snap.Distributions = append(snap.Distributions, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Dividends distributed",
		slog.String("distribution_id", created.DistributionID),
		slog.String("pool", created.TotalInterestPool.String()),
		slog.String("per_share", created.PerShareDividend.String()),
		slog.Int("members", len(created.Distributions)),
	)
	return &created, nil
}

func (s *dividendService) ListDistributions(ctx context.Context, userID string) ([]domain.DividendDistribution, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Distributions, nil
}
