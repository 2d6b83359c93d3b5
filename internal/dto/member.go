package dto

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMemberRequest defines the data needed to onboard a member.
type CreateMemberRequest struct {
	Name            string          `json:"name" binding:"required"`
	CommittedShares decimal.Decimal `json:"committedShares"` // Set by the administrator, not derived
	Forfeited       bool            `json:"forfeited"`
}

// UpdateMemberRequest defines the data allowed for admin edits of a member.
// Pointers distinguish omitted fields from zero-value updates.
type UpdateMemberRequest struct {
	Name            *string          `json:"name"`
	CommittedShares *decimal.Decimal `json:"committedShares"`
	Forfeited       *bool            `json:"forfeited"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID        int             `json:"memberID"`
	Name            string          `json:"name"`
	CommittedShares decimal.Decimal `json:"committedShares"`
	Forfeited       bool            `json:"forfeited"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:        m.MemberID,
		Name:            m.Name,
		CommittedShares: m.CommittedShares,
		Forfeited:       m.Forfeited,
		CreatedAt:       m.CreatedAt,
		LastUpdatedAt:   m.LastUpdatedAt,
	}
}

// ToListMemberResponse converts a slice of domain.Member to response DTOs.
func ToListMemberResponse(members []domain.Member) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i := range members {
		res[i] = ToMemberResponse(&members[i])
	}
	return res
}
