package finance

import (
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Distribute allocates an interest pool across members proportionally to
// their committed shares. Forfeited members keep their shares in the
// denominator but receive nothing, which redistributes their cut across the
// remaining members. A zero total share count yields a zero per-share rate
// rather than a division error.
func Distribute(totalInterestPool decimal.Decimal, members []domain.Member, now time.Time) domain.DividendDistribution {
	totalShares := decimal.Zero
	for _, m := range members {
		totalShares = totalShares.Add(m.CommittedShares)
	}

	perShare := decimal.Zero
	if totalShares.IsPositive() {
		perShare = totalInterestPool.Div(totalShares)
	}

	dividends := make([]domain.MemberDividend, 0, len(members))
	for _, m := range members {
		amount := decimal.Zero
		if !m.Forfeited {
			amount = m.CommittedShares.Mul(perShare)
		}
		dividends = append(dividends, domain.MemberDividend{
			MemberID:       m.MemberID,
			Shares:         m.CommittedShares,
			DividendAmount: amount,
			Forfeited:      m.Forfeited,
		})
	}

	return domain.DividendDistribution{
		Date:              now,
		TotalInterestPool: totalInterestPool,
		TotalShares:       totalShares,
		PerShareDividend:  perShare,
		Distributions:     dividends,
	}
}
