package dto

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePeriodRequest defines the data needed to open a collection period.
type CreatePeriodRequest struct {
	Date                time.Time       `json:"date" binding:"required"`
	DefaultContribution decimal.Decimal `json:"defaultContribution"`
}

// RecordPaymentRequest defines a member contribution into a period.
type RecordPaymentRequest struct {
	MemberID int             `json:"memberID" binding:"required,min=1"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     *time.Time      `json:"date"` // Defaults to the period date
}

// UpdatePaymentRequest changes the amount of an existing payment.
type UpdatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PaymentResponse defines the data returned for a recorded payment.
type PaymentResponse struct {
	MemberID         int             `json:"memberID"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	CollectionPeriod string          `json:"collectionPeriod"`
}

// PeriodResponse defines the data returned for a collection period.
type PeriodResponse struct {
	PeriodID            string            `json:"periodID"`
	Date                time.Time         `json:"date"`
	TotalCollected      decimal.Decimal   `json:"totalCollected"`
	DefaultContribution decimal.Decimal   `json:"defaultContribution"`
	Payments            []PaymentResponse `json:"payments"`
}

// ToPeriodResponse converts a domain.CollectionPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.CollectionPeriod) PeriodResponse {
	payments := make([]PaymentResponse, len(p.Payments))
	for i, pay := range p.Payments {
		payments[i] = PaymentResponse{
			MemberID:         pay.MemberID,
			Amount:           pay.Amount,
			Date:             pay.Date,
			CollectionPeriod: pay.CollectionPeriod,
		}
	}
	return PeriodResponse{
		PeriodID:            p.PeriodID,
		Date:                p.Date,
		TotalCollected:      p.TotalCollected,
		DefaultContribution: p.DefaultContribution,
		Payments:            payments,
	}
}

// ToListPeriodResponse converts a slice of periods to response DTOs.
func ToListPeriodResponse(periods []domain.CollectionPeriod) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToPeriodResponse(&periods[i])
	}
	return res
}
