package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// ReportRepo is a PostgreSQL implementation of the repository.ReportRepository interface
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepo
func NewReportRepository(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// LoanAggregates returns total capital disbursed, capital recovered through
// fully paid installments, and interest earned on those installments
func (r *ReportRepo) LoanAggregates(ctx context.Context) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	query := `SELECT
               COALESCE((SELECT SUM(capital) FROM loans), 0),
               COALESCE((SELECT SUM(capital_portion) FROM installments WHERE status = 'PAID'), 0),
               COALESCE((SELECT SUM(interest_portion) FROM installments WHERE status = 'PAID'), 0)`

	var disbursed, recovered, interestEarned decimal.Decimal
	err := r.db.QueryRowContext(ctx, query).Scan(&disbursed, &recovered, &interestEarned)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("failed to get loan aggregates: %w", err)
	}

	return disbursed, recovered, interestEarned, nil
}

// LoanCountsByStatus returns the number of loans per status
func (r *ReportRepo) LoanCountsByStatus(ctx context.Context) (map[models.LoanStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM loans GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.LoanStatus]int)

	for rows.Next() {
		var status models.LoanStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan loan count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}

// SavingsTotal returns the total savings held across all members
func (r *ReportRepo) SavingsTotal(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM saving_entries`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get savings total: %w", err)
	}

	return total, nil
}

// EventFinesTotal returns the total event fines collected
func (r *ReportRepo) EventFinesTotal(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(fine_paid), 0) FROM event_attendance`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get event fines total: %w", err)
	}

	return total, nil
}
