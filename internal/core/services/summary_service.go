package services

import (
	"context"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/shopspring/decimal"
)

// summaryService derives the aggregate view of the fund.
type summaryService struct {
	snapshots portssvc.SnapshotSvc
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(snapshots portssvc.SnapshotSvc) portssvc.SummarySvcFacade {
	return &summaryService{snapshots: snapshots}
}

var _ portssvc.SummarySvcFacade = (*summaryService)(nil)

func (s *summaryService) GetSummary(ctx context.Context, userID string) (*dto.SummaryResponse, error) {
	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	activeLoans := 0
	for _, l := range snap.Loans {
		if l.Status == domain.LoanApproved {
			activeLoans++
		}
	}

	resp := &dto.SummaryResponse{
		BeginningBalance: snap.BeginningBalance,
		CurrentBalance:   snap.CurrentBalance,
		InterestPool:     snap.InterestPool,
		MemberCount:      len(snap.Members),
		ActiveLoanCount:  activeLoans,
		PeriodLedger:     dto.ToPeriodLedgerResponse(finance.PeriodLedger(snap)),
		MemberStandings:  memberStandings(snap),
	}
	return resp, nil
}

// memberStandings summarizes each member's position: contributions across
// all periods, open loans, and total repaid.
func memberStandings(snap *domain.Snapshot) []dto.MemberStandingResponse {
	contributed := make(map[int]decimal.Decimal)
	for _, p := range snap.Periods {
		for _, pay := range p.Payments {
			contributed[pay.MemberID] = contributed[pay.MemberID].Add(pay.Amount)
		}
	}

	activeLoans := make(map[int]int)
	for _, l := range snap.Loans {
		if l.Status == domain.LoanApproved {
			activeLoans[l.MemberID]++
		}
	}

	repaid := make(map[int]decimal.Decimal)
	for _, r := range snap.Repayments {
		repaid[r.MemberID] = repaid[r.MemberID].Add(r.Amount)
	}

	standings := make([]dto.MemberStandingResponse, len(snap.Members))
	for i, m := range snap.Members {
		standings[i] = dto.MemberStandingResponse{
			MemberID:         m.MemberID,
			Name:             m.Name,
			CommittedShares:  m.CommittedShares,
			Forfeited:        m.Forfeited,
			TotalContributed: contributed[m.MemberID],
			ActiveLoanCount:  activeLoans[m.MemberID],
			TotalRepaid:      repaid[m.MemberID],
		}
	}
	return standings
}
