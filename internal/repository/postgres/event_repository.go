package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Diego200509/asotema-sub000/internal/models"
)

// EventRepo is a PostgreSQL implementation of the repository.EventRepository interface
type EventRepo struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepo
func NewEventRepository(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create creates a new event
func (r *EventRepo) Create(ctx context.Context, event *models.Event) (int, error) {
	query := `INSERT INTO events (name, description, event_date, fine_amount)
             VALUES ($1, $2, $3, $4) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		event.Name,
		event.Description,
		event.EventDate,
		event.FineAmount,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	return id, nil
}

// GetByID gets an event by ID
func (r *EventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT id, name, description, event_date, fine_amount, created_at, updated_at
             FROM events WHERE id = $1`

	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.EventDate,
		&event.FineAmount,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// GetAll gets all events, most recent first
func (r *EventRepo) GetAll(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT id, name, description, event_date, fine_amount, created_at, updated_at
             FROM events ORDER BY event_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event

	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Description,
			&event.EventDate,
			&event.FineAmount,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

// RegisterAttendance records a member's attendance for an event. A repeated
// registration for the same member and event replaces the previous record.
func (r *EventRepo) RegisterAttendance(ctx context.Context, attendance *models.Attendance) (int, error) {
	query := `INSERT INTO event_attendance (event_id, member_id, attended, fine_paid)
             VALUES ($1, $2, $3, $4)
             ON CONFLICT (event_id, member_id)
             DO UPDATE SET attended = EXCLUDED.attended, fine_paid = EXCLUDED.fine_paid
             RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		attendance.EventID,
		attendance.MemberID,
		attendance.Attended,
		attendance.FinePaid,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to register attendance: %w", err)
	}

	return id, nil
}

// GetAttendance gets all attendance records for an event
func (r *EventRepo) GetAttendance(ctx context.Context, eventID int) ([]*models.Attendance, error) {
	query := `SELECT id, event_id, member_id, attended, fine_paid, created_at
             FROM event_attendance
             WHERE event_id = $1
             ORDER BY member_id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.Attendance

	for rows.Next() {
		record := &models.Attendance{}
		err := rows.Scan(
			&record.ID,
			&record.EventID,
			&record.MemberID,
			&record.Attended,
			&record.FinePaid,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}
