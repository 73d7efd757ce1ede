package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGenerateSchedule(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule := GenerateSchedule(d("1000.00"), 3, d("0.01"), start)
	require.Len(t, schedule, 3)

	// Interest is flat on the original capital, identical in every period.
	for _, installment := range schedule {
		assert.True(t, installment.InterestPortion.Equal(d("10.00")),
			"installment %d interest = %s", installment.Sequence, installment.InterestPortion)
	}

	assert.True(t, schedule[0].CapitalPortion.Equal(d("333.33")))
	assert.True(t, schedule[1].CapitalPortion.Equal(d("333.33")))
	assert.True(t, schedule[2].CapitalPortion.Equal(d("333.34")))

	assert.True(t, schedule[0].ExpectedAmount.Equal(d("343.33")))
	assert.True(t, schedule[1].ExpectedAmount.Equal(d("343.33")))
	assert.True(t, schedule[2].ExpectedAmount.Equal(d("343.34")))

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), schedule[1].DueDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), schedule[2].DueDate)

	for i, installment := range schedule {
		assert.Equal(t, i+1, installment.Sequence)
		assert.Equal(t, InstallmentStatusPending, installment.Status)
		assert.True(t, installment.AmountPaid.IsZero())
	}
}

func TestGenerateScheduleCapitalSumsExactly(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		capital string
		term    int
		rate    string
	}{
		{"even split", "1200.00", 12, "0.01"},
		{"uneven split", "1000.00", 3, "0.01"},
		{"uneven split long term", "5000.00", 36, "0.015"},
		{"prime capital", "997.00", 7, "0.02"},
		{"small capital", "100.00", 6, "0.01"},
		{"large capital", "20000.00", 24, "0.01"},
		{"single installment", "1500.00", 1, "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capital := d(tt.capital)
			schedule := GenerateSchedule(capital, tt.term, d(tt.rate), start)
			require.Len(t, schedule, tt.term)

			sum := decimal.Zero
			for _, installment := range schedule {
				sum = sum.Add(installment.CapitalPortion)
				assert.True(t, installment.ExpectedAmount.Equal(
					installment.CapitalPortion.Add(installment.InterestPortion)))
			}
			assert.True(t, sum.Equal(capital), "capital portions sum to %s, want %s", sum, capital)
		})
	}
}

func TestGenerateScheduleSingleInstallment(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	schedule := GenerateSchedule(d("800.00"), 1, d("0.01"), start)
	require.Len(t, schedule, 1)

	assert.True(t, schedule[0].CapitalPortion.Equal(d("800.00")))
	assert.True(t, schedule[0].InterestPortion.Equal(d("8.00")))
	assert.True(t, schedule[0].ExpectedAmount.Equal(d("808.00")))
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule := GenerateSchedule(d("900.00"), 3, decimal.Zero, start)
	require.Len(t, schedule, 3)

	for _, installment := range schedule {
		assert.True(t, installment.InterestPortion.IsZero())
		assert.True(t, installment.ExpectedAmount.Equal(installment.CapitalPortion))
	}
}

func TestGenerateScheduleMonthEndDueDates(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 2/3; the schedule follows
	// the standard library rule rather than clamping to month end.
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	schedule := GenerateSchedule(d("600.00"), 2, d("0.01"), start)
	require.Len(t, schedule, 2)

	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), schedule[1].DueDate)
}

func TestLoanRequestValidate(t *testing.T) {
	policy := LoanPolicy{
		MinCapital:     d("100.00"),
		MaxCapital:     d("20000.00"),
		AllowedTerms:   []int{3, 6, 12, 18, 24, 36},
		MonthlyRate:    d("0.01"),
		PaymentCeiling: d("10000.00"),
	}

	tests := []struct {
		name    string
		request LoanRequest
		wantErr bool
	}{
		{"valid", LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 12}, false},
		{"valid with start date", LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 12, StartDate: "2024-01-01"}, false},
		{"capital below minimum", LoanRequest{MemberID: 1, Capital: d("50.00"), TermMonths: 12}, true},
		{"capital above maximum", LoanRequest{MemberID: 1, Capital: d("25000.00"), TermMonths: 12}, true},
		{"capital at minimum", LoanRequest{MemberID: 1, Capital: d("100.00"), TermMonths: 3}, false},
		{"capital at maximum", LoanRequest{MemberID: 1, Capital: d("20000.00"), TermMonths: 36}, false},
		{"term not offered", LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 5}, true},
		{"zero term", LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 0}, true},
		{"malformed start date", LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 12, StartDate: "01/02/2024"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate(policy)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCapitalOrTerm)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoanRequestToLoan(t *testing.T) {
	policy := LoanPolicy{
		MinCapital:   d("100.00"),
		MaxCapital:   d("20000.00"),
		AllowedTerms: []int{3, 6, 12},
		MonthlyRate:  d("0.01"),
	}

	request := LoanRequest{MemberID: 7, Capital: d("3000.00"), TermMonths: 6, StartDate: "2024-03-10"}
	loan := request.ToLoan(policy, 42)

	assert.Equal(t, 7, loan.MemberID)
	assert.True(t, loan.Capital.Equal(d("3000.00")))
	assert.Equal(t, 6, loan.TermMonths)
	assert.True(t, loan.MonthlyRate.Equal(d("0.01")), "rate comes from policy, not the request")
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), loan.StartDate)
	assert.Equal(t, LoanStatusPending, loan.Status)
	assert.Equal(t, 42, loan.CreatedBy)
}

func TestLoanGenerateInstallments(t *testing.T) {
	loan := &Loan{
		ID:          15,
		Capital:     d("1000.00"),
		TermMonths:  3,
		MonthlyRate: d("0.01"),
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	schedule := loan.GenerateInstallments()
	require.Len(t, schedule, 3)
	assert.Equal(t, schedule, loan.Installments)

	for _, installment := range schedule {
		assert.Equal(t, 15, installment.LoanID)
	}
}
