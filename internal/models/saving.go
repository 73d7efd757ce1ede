package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SavingEntry represents one savings contribution in a member's ledger
type SavingEntry struct {
	ID        int             `json:"id" db:"id"`
	MemberID  int             `json:"member_id" db:"member_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Concept   string          `json:"concept" db:"concept"`
	EntryDate time.Time       `json:"entry_date" db:"entry_date"`
	CreatedBy int             `json:"created_by" db:"created_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// SavingDepositRequest represents a single savings contribution
type SavingDepositRequest struct {
	MemberID int             `json:"member_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Concept  string          `json:"concept,omitempty"`
}

// ValidateDeposit validates a single contribution request
func (s *SavingDepositRequest) ValidateDeposit() error {
	if !s.Amount.IsPositive() {
		return errors.New("deposit amount must be positive")
	}

	return nil
}

// BatchDepositRequest applies one contribution amount to many members at once,
// the monthly collective contribution run
type BatchDepositRequest struct {
	MemberIDs []int           `json:"member_ids" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Concept   string          `json:"concept,omitempty"`
}

// ValidateBatchDeposit validates a batch contribution request
func (b *BatchDepositRequest) ValidateBatchDeposit() error {
	if len(b.MemberIDs) == 0 {
		return errors.New("at least one member is required")
	}

	if !b.Amount.IsPositive() {
		return errors.New("deposit amount must be positive")
	}

	seen := make(map[int]bool, len(b.MemberIDs))
	for _, id := range b.MemberIDs {
		if seen[id] {
			return errors.New("duplicate member in batch deposit")
		}
		seen[id] = true
	}

	return nil
}

// SavingBalance represents a member's savings position
type SavingBalance struct {
	MemberID   int             `json:"member_id"`
	Balance    decimal.Decimal `json:"balance"`
	EntryCount int             `json:"entry_count"`
}
