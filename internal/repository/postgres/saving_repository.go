package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// SavingRepo is a PostgreSQL implementation of the repository.SavingRepository interface
type SavingRepo struct {
	db *sql.DB
}

// NewSavingRepository creates a new SavingRepo
func NewSavingRepository(db *sql.DB) *SavingRepo {
	return &SavingRepo{db: db}
}

// Create creates a new savings entry
func (r *SavingRepo) Create(ctx context.Context, entry *models.SavingEntry) (int, error) {
	query := `INSERT INTO saving_entries (member_id, amount, concept, entry_date, created_by)
             VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		entry.MemberID,
		entry.Amount,
		entry.Concept,
		entry.EntryDate,
		entry.CreatedBy,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create saving entry: %w", err)
	}

	return id, nil
}

// CreateBatchTx inserts savings entries for many members in one statement,
// inside the caller's transaction (the monthly batch contribution run)
func (r *SavingRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, entries []*models.SavingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(entries))
	valueArgs := make([]interface{}, 0, len(entries)*5)

	for i, entry := range entries {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*5+1, i*5+2, i*5+3, i*5+4, i*5+5))

		valueArgs = append(valueArgs,
			entry.MemberID,
			entry.Amount,
			entry.Concept,
			entry.EntryDate,
			entry.CreatedBy,
		)
	}

	stmt := fmt.Sprintf(`INSERT INTO saving_entries (member_id, amount, concept, entry_date, created_by)
                       VALUES %s`, strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, stmt, valueArgs...)
	if err != nil {
		return fmt.Errorf("failed to insert saving entries: %w", err)
	}

	return nil
}

// GetByMemberID gets all savings entries for a member
func (r *SavingRepo) GetByMemberID(ctx context.Context, memberID int) ([]*models.SavingEntry, error) {
	query := `SELECT id, member_id, amount, concept, entry_date, created_by, created_at
             FROM saving_entries
             WHERE member_id = $1
             ORDER BY entry_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get saving entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.SavingEntry

	for rows.Next() {
		entry := &models.SavingEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.MemberID,
			&entry.Amount,
			&entry.Concept,
			&entry.EntryDate,
			&entry.CreatedBy,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saving entry: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

// GetBalance gets a member's savings balance
func (r *SavingRepo) GetBalance(ctx context.Context, memberID int) (*models.SavingBalance, error) {
	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*)
             FROM saving_entries
             WHERE member_id = $1`

	balance := &models.SavingBalance{MemberID: memberID}
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&balance.Balance, &balance.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings balance: %w", err)
	}

	return balance, nil
}
