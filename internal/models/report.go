package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary represents the association's aggregate financial position
type FinancialSummary struct {
	GeneratedAt         time.Time       `json:"generated_at"`
	ActiveLoans         int             `json:"active_loans"`
	SettledLoans        int             `json:"settled_loans"`
	OverdueLoans        int             `json:"overdue_loans"`
	CapitalDisbursed    decimal.Decimal `json:"capital_disbursed"`
	CapitalRecovered    decimal.Decimal `json:"capital_recovered"`
	CapitalOutstanding  decimal.Decimal `json:"capital_outstanding"`
	InterestEarned      decimal.Decimal `json:"interest_earned"`
	SavingsHeld         decimal.Decimal `json:"savings_held"`
	EventFinesCollected decimal.Decimal `json:"event_fines_collected"`
}
