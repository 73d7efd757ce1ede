package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// InstallmentRepo is a PostgreSQL implementation of the repository.InstallmentRepository interface
type InstallmentRepo struct {
	db *sql.DB
}

// NewInstallmentRepository creates a new InstallmentRepo
func NewInstallmentRepository(db *sql.DB) *InstallmentRepo {
	return &InstallmentRepo{db: db}
}

const installmentColumns = `id, loan_id, sequence, due_date, expected_amount, interest_portion, capital_portion, amount_paid, status, created_at, updated_at`

// CreateBatchTx inserts all installments of a loan in one statement, inside
// the same transaction that creates the loan
func (r *InstallmentRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, installments []*models.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(installments))
	valueArgs := make([]interface{}, 0, len(installments)*8)

	for i, installment := range installments {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*8+1, i*8+2, i*8+3, i*8+4, i*8+5, i*8+6, i*8+7, i*8+8))

		valueArgs = append(valueArgs,
			installment.LoanID,
			installment.Sequence,
			installment.DueDate,
			installment.ExpectedAmount,
			installment.InterestPortion,
			installment.CapitalPortion,
			installment.AmountPaid,
			installment.Status,
		)
	}

	stmt := fmt.Sprintf(`INSERT INTO installments
                       (loan_id, sequence, due_date, expected_amount, interest_portion,
                        capital_portion, amount_paid, status)
                       VALUES %s`, strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, stmt, valueArgs...)
	if err != nil {
		return fmt.Errorf("failed to insert installments: %w", err)
	}

	return nil
}

// querier abstracts *sql.DB and *sql.Tx for shared read queries
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// GetByLoanID gets all installments for a loan, ordered by sequence
func (r *InstallmentRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Installment, error) {
	return r.getByLoanID(ctx, r.db, loanID)
}

// GetByLoanIDTx gets all installments for a loan inside a transaction, so the
// read sees that transaction's own writes
func (r *InstallmentRepo) GetByLoanIDTx(ctx context.Context, tx *sql.Tx, loanID int) ([]*models.Installment, error) {
	return r.getByLoanID(ctx, tx, loanID)
}

func (r *InstallmentRepo) getByLoanID(ctx context.Context, q querier, loanID int) ([]*models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY sequence`

	rows, err := q.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}
	defer rows.Close()

	return r.scanInstallments(rows)
}

// GetByLoanAndSequence gets one installment by loan and sequence number
func (r *InstallmentRepo) GetByLoanAndSequence(ctx context.Context, loanID, sequence int) (*models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 AND sequence = $2`

	return r.queryOne(ctx, r.db.QueryRowContext(ctx, query, loanID, sequence))
}

// GetByLoanAndSequenceForUpdateTx gets one installment with a row lock, so
// concurrent payments against the same installment serialize at the store
func (r *InstallmentRepo) GetByLoanAndSequenceForUpdateTx(ctx context.Context, tx *sql.Tx, loanID, sequence int) (*models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 AND sequence = $2 FOR UPDATE`

	return r.queryOne(ctx, tx.QueryRowContext(ctx, query, loanID, sequence))
}

// UpdatePaymentTx persists the accumulated amount paid and derived status
func (r *InstallmentRepo) UpdatePaymentTx(ctx context.Context, tx *sql.Tx, installment *models.Installment) error {
	query := `UPDATE installments SET amount_paid = $1, status = $2, updated_at = NOW() WHERE id = $3`

	result, err := tx.ExecContext(ctx, query, installment.AmountPaid, installment.Status, installment.ID)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("installment not found")
	}

	return nil
}

// GetUnpaidDueBefore gets all non-paid installments whose due date is before a given date
func (r *InstallmentRepo) GetUnpaidDueBefore(ctx context.Context, date time.Time) ([]*models.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments
             WHERE status <> $1 AND due_date < $2
             ORDER BY loan_id, sequence`

	rows, err := r.db.QueryContext(ctx, query, models.InstallmentStatusPaid, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid installments: %w", err)
	}
	defer rows.Close()

	return r.scanInstallments(rows)
}

func (r *InstallmentRepo) queryOne(_ context.Context, row *sql.Row) (*models.Installment, error) {
	installment := &models.Installment{}
	err := row.Scan(
		&installment.ID,
		&installment.LoanID,
		&installment.Sequence,
		&installment.DueDate,
		&installment.ExpectedAmount,
		&installment.InterestPortion,
		&installment.CapitalPortion,
		&installment.AmountPaid,
		&installment.Status,
		&installment.CreatedAt,
		&installment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("installment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	return installment, nil
}

// Helper function to scan multiple installments
func (r *InstallmentRepo) scanInstallments(rows *sql.Rows) ([]*models.Installment, error) {
	var installments []*models.Installment

	for rows.Next() {
		installment := &models.Installment{}
		err := rows.Scan(
			&installment.ID,
			&installment.LoanID,
			&installment.Sequence,
			&installment.DueDate,
			&installment.ExpectedAmount,
			&installment.InterestPortion,
			&installment.CapitalPortion,
			&installment.AmountPaid,
			&installment.Status,
			&installment.CreatedAt,
			&installment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}

		installments = append(installments, installment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return installments, nil
}
