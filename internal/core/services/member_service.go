package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// memberService manages cooperative members inside the user's snapshot.
type memberService struct {
	snapshots portssvc.SnapshotSvc
}

// NewMemberService creates a new MemberService.
func NewMemberService(snapshots portssvc.SnapshotSvc) portssvc.MemberSvcFacade {
	return &memberService{snapshots: snapshots}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) CreateMember(ctx context.Context, userID string, req dto.CreateMemberRequest) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CommittedShares.IsNegative() {
		return nil, fmt.Errorf("%w: committed shares cannot be negative", apperrors.ErrValidation)
	}

	var created domain.Member
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		now := time.Now().UTC()
		created = domain.Member{
			MemberID:        snap.NextMemberID(),
			Name:            req.Name,
			CommittedShares: req.CommittedShares,
			Forfeited:       req.Forfeited,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		snap.Members = append(snap.Members, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Member created", slog.Int("member_id", created.MemberID))
	return &created, nil
}

func (s *memberService) GetMember(ctx context.Context, userID string, memberID int) (*domain.Member, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	member := snap.FindMember(memberID)
	if member == nil {
		return nil, fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
	}
	return member, nil
}

func (s *memberService) ListMembers(ctx context.Context, userID string) ([]domain.Member, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Members, nil
}

func (s *memberService) UpdateMember(ctx context.Context, userID string, memberID int, req dto.UpdateMemberRequest) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CommittedShares != nil && req.CommittedShares.IsNegative() {
		return nil, fmt.Errorf("%w: committed shares cannot be negative", apperrors.ErrValidation)
	}

	var updated domain.Member
	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		member := snap.FindMember(memberID)
		if member == nil {
			return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
		}
		if req.Name != nil {
			member.Name = *req.Name
		}
		if req.CommittedShares != nil {
			member.CommittedShares = *req.CommittedShares
		}
		if req.Forfeited != nil {
			member.Forfeited = *req.Forfeited
		}
		member.LastUpdatedAt = time.Now().UTC()
		member.LastUpdatedBy = userID
		updated = *member
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Member updated", slog.Int("member_id", memberID))
	return &updated, nil
}

// DeleteMember removes a member and cascades to everything they own:
// payments in every period, loans, and the loans' repayments and penalties.
func (s *memberService) DeleteMember(ctx context.Context, userID string, memberID int) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, err := s.snapshots.Mutate(ctx, userID, func(snap *domain.Snapshot) error {
		if snap.FindMember(memberID) == nil {
			return fmt.Errorf("%w: member %d", apperrors.ErrNotFound, memberID)
		}

		members := snap.Members[:0]
		for _, m := range snap.Members {
			if m.MemberID != memberID {
				members = append(members, m)
			}
		}
		snap.Members = members

		for i := range snap.Periods {
			payments := snap.Periods[i].Payments[:0]
			for _, p := range snap.Periods[i].Payments {
				if p.MemberID != memberID {
					payments = append(payments, p)
				}
			}
			snap.Periods[i].Payments = payments
		}

		removedLoans := make(map[string]bool)
		loans := snap.Loans[:0]
		for _, l := range snap.Loans {
			if l.MemberID == memberID {
				removedLoans[l.LoanID] = true
				continue
			}
			loans = append(loans, l)
		}
		snap.Loans = loans

		repayments := snap.Repayments[:0]
		for _, r := range snap.Repayments {
			if r.MemberID != memberID && !removedLoans[r.LoanID] {
				repayments = append(repayments, r)
			}
		}
		snap.Repayments = repayments

		penalties := snap.Penalties[:0]
		for _, p := range snap.Penalties {
			if !removedLoans[p.LoanID] {
				penalties = append(penalties, p)
			}
		}
		snap.Penalties = penalties
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Member deleted with cascading records", slog.Int("member_id", memberID))
	return nil
}
