package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the full per-user dataset. All services operate over one
// in-memory snapshot; there is no partial loading. Persistence serializes
// the whole snapshot as a single JSON blob keyed by user id, last write wins.
type Snapshot struct {
	BeginningBalance decimal.Decimal        `json:"beginningBalance"`
	Members          []Member               `json:"members"`
	Periods          []CollectionPeriod     `json:"periods"`
	Loans            []Loan                 `json:"loans"`
	Repayments       []Repayment            `json:"repayments"`
	Penalties        []Penalty              `json:"penalties"`
	Distributions    []DividendDistribution `json:"distributions"`
	Archives         []YearlyArchive        `json:"archives"`

	// Derived fields. Recomputed after every committed mutation and on every
	// load; a persisted value is never trusted.
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	InterestPool   decimal.Decimal `json:"interestPool"`

	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// NewSnapshot returns an empty snapshot for a fresh user.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		BeginningBalance: decimal.Zero,
		CurrentBalance:   decimal.Zero,
		InterestPool:     decimal.Zero,
	}
}

// FindMember returns the member with the given id, or nil.
func (s *Snapshot) FindMember(memberID int) *Member {
	for i := range s.Members {
		if s.Members[i].MemberID == memberID {
			return &s.Members[i]
		}
	}
	return nil
}

// FindPeriod returns the collection period with the given id, or nil.
func (s *Snapshot) FindPeriod(periodID string) *CollectionPeriod {
	for i := range s.Periods {
		if s.Periods[i].PeriodID == periodID {
			return &s.Periods[i]
		}
	}
	return nil
}

// FindLoan returns the loan with the given id, or nil.
func (s *Snapshot) FindLoan(loanID string) *Loan {
	for i := range s.Loans {
		if s.Loans[i].LoanID == loanID {
			return &s.Loans[i]
		}
	}
	return nil
}

// NextMemberID returns the next sequential member id (ids start at 1).
func (s *Snapshot) NextMemberID() int {
	next := 1
	for _, m := range s.Members {
		if m.MemberID >= next {
			next = m.MemberID + 1
		}
	}
	return next
}

// LoanRepayments returns the repayments recorded against a loan.
func (s *Snapshot) LoanRepayments(loanID string) []Repayment {
	var out []Repayment
	for _, r := range s.Repayments {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out
}

// LoanPenalties returns the penalties assessed against a loan.
func (s *Snapshot) LoanPenalties(loanID string) []Penalty {
	var out []Penalty
	for _, p := range s.Penalties {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out
}
