package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when a payment amount is not positive
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrAmountExceedsLimit is returned when a payment amount is above the
	// per-transaction ceiling. The ceiling is a flat bound against mistyped
	// amounts, independent of the installment's remaining balance.
	ErrAmountExceedsLimit = errors.New("payment amount exceeds the per-transaction limit")

	// ErrInstallmentAlreadySettled is returned when paying a fully paid installment
	ErrInstallmentAlreadySettled = errors.New("installment is already fully paid")

	// ErrRemoteWriteFailed is returned when an accepted payment could not be
	// persisted. The payment is rolled back; nothing was recorded.
	ErrRemoteWriteFailed = errors.New("failed to persist the payment")
)

// PaymentRequest represents a payment against one installment of a loan
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PaymentResult represents the outcome of a recorded payment
type PaymentResult struct {
	ReceiptID     string            `json:"receipt_id"`
	LoanID        int               `json:"loan_id"`
	Sequence      int               `json:"sequence"`
	AmountApplied decimal.Decimal   `json:"amount_applied"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	Status        InstallmentStatus `json:"status"`
	LoanStatus    LoanStatus        `json:"loan_status"`
	PaidAt        time.Time         `json:"paid_at"`
}

// ApplyPayment validates a payment amount against an installment and, when
// accepted, accumulates it on the installment and recomputes its status.
// The applied amount is clamped to the remaining balance so the amount paid
// can never exceed the expected amount. Validation runs entirely before any
// mutation; a rejected payment leaves the installment untouched.
func ApplyPayment(installment *Installment, amount, ceiling decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	if amount.GreaterThan(ceiling) {
		return decimal.Zero, ErrAmountExceedsLimit
	}

	if ResolveInstallmentStatus(installment.ExpectedAmount, installment.AmountPaid) == InstallmentStatusPaid {
		return decimal.Zero, ErrInstallmentAlreadySettled
	}

	applied := amount
	if remaining := installment.RemainingBalance(); applied.GreaterThan(remaining) {
		applied = remaining
	}

	installment.AmountPaid = installment.AmountPaid.Add(applied)
	installment.RefreshStatus()

	return applied, nil
}
