package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// LoanRepo is a PostgreSQL implementation of the repository.LoanRepository interface
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepository creates a new LoanRepo
func NewLoanRepository(db *sql.DB) *LoanRepo {
	return &LoanRepo{db: db}
}

const loanColumns = `id, member_id, capital, term_months, monthly_rate, start_date, status, created_by, created_at, updated_at`

// CreateTx creates a new loan inside an existing transaction
func (r *LoanRepo) CreateTx(ctx context.Context, tx *sql.Tx, loan *models.Loan) (int, error) {
	query := `INSERT INTO loans (member_id, capital, term_months, monthly_rate, start_date, status, created_by)
             VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int
	err := tx.QueryRowContext(
		ctx,
		query,
		loan.MemberID,
		loan.Capital,
		loan.TermMonths,
		loan.MonthlyRate,
		loan.StartDate,
		loan.Status,
		loan.CreatedBy,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create loan: %w", err)
	}

	return id, nil
}

// GetByID gets a loan by ID
func (r *LoanRepo) GetByID(ctx context.Context, id int) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan := &models.Loan{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&loan.ID,
		&loan.MemberID,
		&loan.Capital,
		&loan.TermMonths,
		&loan.MonthlyRate,
		&loan.StartDate,
		&loan.Status,
		&loan.CreatedBy,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loan not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return loan, nil
}

// GetByMemberID gets all loans for a member
func (r *LoanRepo) GetByMemberID(ctx context.Context, memberID int) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}
	defer rows.Close()

	return r.scanLoans(rows)
}

// GetAll gets all loans
func (r *LoanRepo) GetAll(ctx context.Context) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}
	defer rows.Close()

	return r.scanLoans(rows)
}

// GetByStatus gets all loans with a given status
func (r *LoanRepo) GetByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans by status: %w", err)
	}
	defer rows.Close()

	return r.scanLoans(rows)
}

// UpdateStatus updates a loan's status
func (r *LoanRepo) UpdateStatus(ctx context.Context, id int, status models.LoanStatus) error {
	return r.updateStatus(ctx, r.db, id, status)
}

// UpdateStatusTx updates a loan's status inside an existing transaction
func (r *LoanRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int, status models.LoanStatus) error {
	return r.updateStatus(ctx, tx, id, status)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *LoanRepo) updateStatus(ctx context.Context, db execer, id int, status models.LoanStatus) error {
	query := `UPDATE loans SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update loan status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("loan not found")
	}

	return nil
}

// Helper function to scan multiple loans
func (r *LoanRepo) scanLoans(rows *sql.Rows) ([]*models.Loan, error) {
	var loans []*models.Loan

	for rows.Next() {
		loan := &models.Loan{}
		err := rows.Scan(
			&loan.ID,
			&loan.MemberID,
			&loan.Capital,
			&loan.TermMonths,
			&loan.MonthlyRate,
			&loan.StartDate,
			&loan.Status,
			&loan.CreatedBy,
			&loan.CreatedAt,
			&loan.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}

		loans = append(loans, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return loans, nil
}
