package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInstallmentStatus(t *testing.T) {
	expected := d("343.33")

	tests := []struct {
		name string
		paid string
		want InstallmentStatus
	}{
		{"nothing paid", "0.00", InstallmentStatusPending},
		{"negative amount paid", "-10.00", InstallmentStatusPending},
		{"one cent paid", "0.01", InstallmentStatusPartial},
		{"almost settled", "343.32", InstallmentStatusPartial},
		{"exactly settled", "343.33", InstallmentStatusPaid},
		{"overpaid", "400.00", InstallmentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveInstallmentStatus(expected, d(tt.paid)))
		})
	}
}

func TestRemainingBalance(t *testing.T) {
	installment := &Installment{ExpectedAmount: d("343.33"), AmountPaid: d("100.00")}
	assert.True(t, installment.RemainingBalance().Equal(d("243.33")))

	installment.AmountPaid = d("343.33")
	assert.True(t, installment.RemainingBalance().IsZero())
}

func TestResolveLoanStatus(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	past := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	installment := func(due time.Time, expected, paid string) *Installment {
		return &Installment{DueDate: due, ExpectedAmount: d(expected), AmountPaid: d(paid)}
	}

	tests := []struct {
		name         string
		installments []*Installment
		want         LoanStatus
	}{
		{
			"no installments",
			nil,
			LoanStatusPending,
		},
		{
			"all paid",
			[]*Installment{
				installment(past, "343.33", "343.33"),
				installment(future, "343.34", "343.34"),
			},
			LoanStatusSettled,
		},
		{
			"unpaid but not yet due",
			[]*Installment{
				installment(past, "343.33", "343.33"),
				installment(future, "343.34", "0.00"),
			},
			LoanStatusPending,
		},
		{
			"one overdue dominates",
			[]*Installment{
				installment(past, "343.33", "100.00"),
				installment(future, "343.34", "343.34"),
			},
			LoanStatusOverdue,
		},
		{
			"overdue dominates pending",
			[]*Installment{
				installment(past, "343.33", "0.00"),
				installment(future, "343.34", "0.00"),
			},
			LoanStatusOverdue,
		},
		{
			"partial on a future installment stays pending",
			[]*Installment{
				installment(future, "343.33", "200.00"),
			},
			LoanStatusPending,
		},
		{
			"paid installment past due is not overdue",
			[]*Installment{
				installment(past, "343.33", "343.33"),
			},
			LoanStatusSettled,
		},
		{
			"due exactly today is not overdue",
			[]*Installment{
				installment(asOf, "343.33", "0.00"),
			},
			LoanStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLoanStatus(tt.installments, asOf))
		})
	}
}

func TestRefreshStatus(t *testing.T) {
	installment := &Installment{
		ExpectedAmount: d("343.33"),
		AmountPaid:     decimal.Zero,
		Status:         InstallmentStatusPending,
	}

	installment.AmountPaid = d("100.00")
	installment.RefreshStatus()
	assert.Equal(t, InstallmentStatusPartial, installment.Status)

	installment.AmountPaid = d("343.33")
	installment.RefreshStatus()
	assert.Equal(t, InstallmentStatusPaid, installment.Status)
}

func TestCalculateScheduleSummary(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	past := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	installments := []*Installment{
		{DueDate: past, CapitalPortion: d("333.33"), InterestPortion: d("10.00"), ExpectedAmount: d("343.33"), AmountPaid: d("343.33")},
		{DueDate: past, CapitalPortion: d("333.33"), InterestPortion: d("10.00"), ExpectedAmount: d("343.33"), AmountPaid: d("100.00")},
		{DueDate: future, CapitalPortion: d("333.34"), InterestPortion: d("10.00"), ExpectedAmount: d("343.34"), AmountPaid: d("0.00")},
	}

	summary := CalculateScheduleSummary(installments, asOf)
	require.NotNil(t, summary)

	assert.Equal(t, 3, summary.TotalInstallments)
	assert.True(t, summary.TotalCapital.Equal(d("1000.00")))
	assert.True(t, summary.TotalInterest.Equal(d("30.00")))
	assert.True(t, summary.TotalExpected.Equal(d("1030.00")))
	assert.True(t, summary.TotalPaid.Equal(d("443.33")))
	assert.True(t, summary.TotalRemaining.Equal(d("586.67")))
	assert.Equal(t, 1, summary.PaidInstallments)
	assert.Equal(t, 1, summary.PartialInstallments)
	assert.Equal(t, 1, summary.PendingInstallments)
	assert.Equal(t, 1, summary.OverdueInstallments)
}
