package domain

import (
	"github.com/shopspring/decimal"
)

// Member represents a cooperative member within the core domain.
// This is the primary representation used by services.
type Member struct {
	MemberID        int             `json:"memberID"`        // Sequential, assigned at onboarding (≥1)
	Name            string          `json:"name"`            // Member display name
	CommittedShares decimal.Decimal `json:"committedShares"` // Fixed share count set by an administrator
	Forfeited       bool            `json:"forfeited"`       // Excluded from receiving dividends when true
	AuditFields
}
