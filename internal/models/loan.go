package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus defines the status of a loan
type LoanStatus string

const (
	LoanStatusPending LoanStatus = "PENDING"
	LoanStatusSettled LoanStatus = "SETTLED"
	LoanStatusOverdue LoanStatus = "OVERDUE"
)

// ErrInvalidCapitalOrTerm is returned when a loan request carries a capital
// outside the configured range or a term outside the allowed enumeration.
var ErrInvalidCapitalOrTerm = errors.New("capital or term outside the accepted range")

// Loan represents a disbursed loan to a member, repaid in fixed monthly installments
type Loan struct {
	ID           int             `json:"id" db:"id"`
	MemberID     int             `json:"member_id" db:"member_id"`
	Capital      decimal.Decimal `json:"capital" db:"capital"`
	TermMonths   int             `json:"term_months" db:"term_months"`
	MonthlyRate  decimal.Decimal `json:"monthly_rate" db:"monthly_rate"`
	StartDate    time.Time       `json:"start_date" db:"start_date"`
	Status       LoanStatus      `json:"status" db:"status"`
	CreatedBy    int             `json:"created_by" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	Installments []*Installment  `json:"installments,omitempty" db:"-"`
}

// LoanPolicy holds the lending policy limits supplied by configuration.
// The monthly rate is a policy default, not editable per loan.
type LoanPolicy struct {
	MinCapital     decimal.Decimal
	MaxCapital     decimal.Decimal
	AllowedTerms   []int
	MonthlyRate    decimal.Decimal
	PaymentCeiling decimal.Decimal
}

// LoanRequest represents a loan application request
type LoanRequest struct {
	MemberID  int             `json:"member_id" binding:"required"`
	Capital   decimal.Decimal `json:"capital" binding:"required"`
	TermMonths int            `json:"term_months" binding:"required"`
	StartDate string          `json:"start_date,omitempty"` // YYYY-MM-DD, defaults to today
}

// Validate checks the loan request against the lending policy
func (l *LoanRequest) Validate(policy LoanPolicy) error {
	if l.Capital.LessThan(policy.MinCapital) || l.Capital.GreaterThan(policy.MaxCapital) {
		return fmt.Errorf("%w: capital %s must be between %s and %s",
			ErrInvalidCapitalOrTerm, l.Capital.StringFixed(2),
			policy.MinCapital.StringFixed(2), policy.MaxCapital.StringFixed(2))
	}

	termAllowed := false
	for _, t := range policy.AllowedTerms {
		if l.TermMonths == t {
			termAllowed = true
			break
		}
	}
	if !termAllowed {
		return fmt.Errorf("%w: term of %d months is not offered", ErrInvalidCapitalOrTerm, l.TermMonths)
	}

	if l.StartDate != "" {
		if _, err := time.Parse("2006-01-02", l.StartDate); err != nil {
			return fmt.Errorf("%w: invalid start date %q (use YYYY-MM-DD)", ErrInvalidCapitalOrTerm, l.StartDate)
		}
	}

	return nil
}

// ParsedStartDate returns the requested start date, or today when omitted
func (l *LoanRequest) ParsedStartDate() time.Time {
	if l.StartDate == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	date, _ := time.Parse("2006-01-02", l.StartDate)
	return date
}

// ToLoan converts LoanRequest to Loan using the policy rate
func (l *LoanRequest) ToLoan(policy LoanPolicy, createdBy int) *Loan {
	return &Loan{
		MemberID:    l.MemberID,
		Capital:     l.Capital,
		TermMonths:  l.TermMonths,
		MonthlyRate: policy.MonthlyRate,
		StartDate:   l.ParsedStartDate(),
		Status:      LoanStatusPending,
		CreatedBy:   createdBy,
	}
}

// GenerateSchedule builds the flat-interest, equal-capital repayment schedule
// for a loan. Interest is charged on the original capital every period, never
// on the declining balance. The last installment's capital portion absorbs
// all rounding drift so the capital portions sum exactly to the loan capital.
func GenerateSchedule(capital decimal.Decimal, termMonths int, monthlyRate decimal.Decimal, startDate time.Time) []*Installment {
	interestPortion := capital.Mul(monthlyRate).Round(2)
	capitalPortion := capital.Div(decimal.NewFromInt(int64(termMonths))).Round(2)

	schedule := make([]*Installment, 0, termMonths)
	assigned := decimal.Zero

	for i := 1; i <= termMonths; i++ {
		portion := capitalPortion
		if i == termMonths {
			// Remainder absorption: the final installment closes the capital exactly.
			portion = capital.Sub(assigned)
		}
		assigned = assigned.Add(portion)

		schedule = append(schedule, &Installment{
			Sequence:        i,
			DueDate:         startDate.AddDate(0, i, 0),
			CapitalPortion:  portion,
			InterestPortion: interestPortion,
			ExpectedAmount:  portion.Add(interestPortion),
			AmountPaid:      decimal.Zero,
			Status:          InstallmentStatusPending,
		})
	}

	return schedule
}

// GenerateInstallments generates and attaches the schedule for a loan
func (l *Loan) GenerateInstallments() []*Installment {
	schedule := GenerateSchedule(l.Capital, l.TermMonths, l.MonthlyRate, l.StartDate)
	for _, installment := range schedule {
		installment.LoanID = l.ID
	}

	l.Installments = schedule
	return schedule
}
