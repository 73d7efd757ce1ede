package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// MemberRepo is a PostgreSQL implementation of the repository.MemberRepository interface
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepository creates a new MemberRepo
func NewMemberRepository(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

const memberColumns = `id, cedula, first_name, last_name, phone, email, join_date, is_active, created_at, updated_at`

// Create creates a new member in the database
func (r *MemberRepo) Create(ctx context.Context, member *models.Member) (int, error) {
	query := `INSERT INTO members (cedula, first_name, last_name, phone, email, join_date, is_active)
             VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		member.Cedula,
		member.FirstName,
		member.LastName,
		member.Phone,
		member.Email,
		member.JoinDate,
		member.IsActive,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create member: %w", err)
	}

	return id, nil
}

// GetByID gets a member by ID
func (r *MemberRepo) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	return r.queryOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByCedula gets a member by national id
func (r *MemberRepo) GetByCedula(ctx context.Context, cedula string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE cedula = $1`

	return r.queryOne(r.db.QueryRowContext(ctx, query, cedula))
}

// Search finds members matching a cedula prefix or name fragment
func (r *MemberRepo) Search(ctx context.Context, search string) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members
             WHERE cedula LIKE $1 || '%'
                OR LOWER(first_name || ' ' || last_name) LIKE '%' || LOWER($1) || '%'
             ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer rows.Close()

	return r.scanMembers(rows)
}

// GetAll gets all members
func (r *MemberRepo) GetAll(ctx context.Context) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	return r.scanMembers(rows)
}

// Update updates a member
func (r *MemberRepo) Update(ctx context.Context, member *models.Member) error {
	query := `UPDATE members
             SET cedula = $1, first_name = $2, last_name = $3, phone = $4, email = $5, updated_at = NOW()
             WHERE id = $6`

	result, err := r.db.ExecContext(
		ctx,
		query,
		member.Cedula,
		member.FirstName,
		member.LastName,
		member.Phone,
		member.Email,
		member.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}

// Deactivate marks a member as inactive
func (r *MemberRepo) Deactivate(ctx context.Context, id int) error {
	query := `UPDATE members SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}

func (r *MemberRepo) queryOne(row *sql.Row) (*models.Member, error) {
	member := &models.Member{}
	err := row.Scan(
		&member.ID,
		&member.Cedula,
		&member.FirstName,
		&member.LastName,
		&member.Phone,
		&member.Email,
		&member.JoinDate,
		&member.IsActive,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("member not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// Helper function to scan multiple members
func (r *MemberRepo) scanMembers(rows *sql.Rows) ([]*models.Member, error) {
	var members []*models.Member

	for rows.Next() {
		member := &models.Member{}
		err := rows.Scan(
			&member.ID,
			&member.Cedula,
			&member.FirstName,
			&member.LastName,
			&member.Phone,
			&member.Email,
			&member.JoinDate,
			&member.IsActive,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}

		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return members, nil
}
