package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus defines the status of an installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPartial InstallmentStatus = "PARTIAL"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

// Installment represents one scheduled repayment unit of a loan (cuota)
type Installment struct {
	ID              int               `json:"id" db:"id"`
	LoanID          int               `json:"loan_id" db:"loan_id"`
	Sequence        int               `json:"sequence" db:"sequence"`
	DueDate         time.Time         `json:"due_date" db:"due_date"`
	ExpectedAmount  decimal.Decimal   `json:"expected_amount" db:"expected_amount"`
	InterestPortion decimal.Decimal   `json:"interest_portion" db:"interest_portion"`
	CapitalPortion  decimal.Decimal   `json:"capital_portion" db:"capital_portion"`
	AmountPaid      decimal.Decimal   `json:"amount_paid" db:"amount_paid"`
	Status          InstallmentStatus `json:"status" db:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// RemainingBalance returns the unpaid part of the installment
func (i *Installment) RemainingBalance() decimal.Decimal {
	return i.ExpectedAmount.Sub(i.AmountPaid)
}

// ResolveInstallmentStatus derives an installment status from the expected
// amount and the accumulated amount paid. Status is a projection of the
// numbers, never stored truth.
func ResolveInstallmentStatus(expectedAmount, amountPaid decimal.Decimal) InstallmentStatus {
	switch {
	case amountPaid.IsZero() || amountPaid.IsNegative():
		return InstallmentStatusPending
	case amountPaid.LessThan(expectedAmount):
		return InstallmentStatusPartial
	default:
		return InstallmentStatusPaid
	}
}

// ResolveLoanStatus derives the aggregate loan status from its installments
// as of a given date. An overdue installment dominates: the loan shows
// OVERDUE even when every other installment is current.
func ResolveLoanStatus(installments []*Installment, asOf time.Time) LoanStatus {
	if len(installments) == 0 {
		return LoanStatusPending
	}

	settled := true
	for _, installment := range installments {
		status := ResolveInstallmentStatus(installment.ExpectedAmount, installment.AmountPaid)
		if status == InstallmentStatusPaid {
			continue
		}

		settled = false
		if installment.DueDate.Before(asOf) {
			return LoanStatusOverdue
		}
	}

	if settled {
		return LoanStatusSettled
	}

	return LoanStatusPending
}

// RefreshStatus recomputes the installment's derived status in place
func (i *Installment) RefreshStatus() {
	i.Status = ResolveInstallmentStatus(i.ExpectedAmount, i.AmountPaid)
}

// ScheduleSummary represents aggregate figures for a loan's schedule
type ScheduleSummary struct {
	TotalInstallments   int             `json:"total_installments"`
	TotalCapital        decimal.Decimal `json:"total_capital"`
	TotalInterest       decimal.Decimal `json:"total_interest"`
	TotalExpected       decimal.Decimal `json:"total_expected"`
	TotalPaid           decimal.Decimal `json:"total_paid"`
	TotalRemaining      decimal.Decimal `json:"total_remaining"`
	PaidInstallments    int             `json:"paid_installments"`
	PartialInstallments int             `json:"partial_installments"`
	PendingInstallments int             `json:"pending_installments"`
	OverdueInstallments int             `json:"overdue_installments"`
}

// CalculateScheduleSummary calculates aggregate figures for a schedule
func CalculateScheduleSummary(installments []*Installment, asOf time.Time) *ScheduleSummary {
	summary := &ScheduleSummary{
		TotalInstallments: len(installments),
		TotalCapital:      decimal.Zero,
		TotalInterest:     decimal.Zero,
		TotalExpected:     decimal.Zero,
		TotalPaid:         decimal.Zero,
		TotalRemaining:    decimal.Zero,
	}

	for _, installment := range installments {
		summary.TotalCapital = summary.TotalCapital.Add(installment.CapitalPortion)
		summary.TotalInterest = summary.TotalInterest.Add(installment.InterestPortion)
		summary.TotalExpected = summary.TotalExpected.Add(installment.ExpectedAmount)
		summary.TotalPaid = summary.TotalPaid.Add(installment.AmountPaid)
		summary.TotalRemaining = summary.TotalRemaining.Add(installment.RemainingBalance())

		switch ResolveInstallmentStatus(installment.ExpectedAmount, installment.AmountPaid) {
		case InstallmentStatusPaid:
			summary.PaidInstallments++
		case InstallmentStatusPartial:
			summary.PartialInstallments++
		case InstallmentStatusPending:
			summary.PendingInstallments++
		}

		if ResolveInstallmentStatus(installment.ExpectedAmount, installment.AmountPaid) != InstallmentStatusPaid &&
			installment.DueDate.Before(asOf) {
			summary.OverdueInstallments++
		}
	}

	return summary
}
