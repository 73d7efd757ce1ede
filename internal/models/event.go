package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Event represents an association event with attendance control
type Event struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	EventDate   time.Time       `json:"event_date" db:"event_date"`
	FineAmount  decimal.Decimal `json:"fine_amount" db:"fine_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// EventRequest represents event creation data
type EventRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description,omitempty"`
	EventDate   string          `json:"event_date" binding:"required"` // YYYY-MM-DD
	FineAmount  decimal.Decimal `json:"fine_amount,omitempty"`
}

// ValidateEventRequest validates event data
func (e *EventRequest) ValidateEventRequest() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return errors.New("event name is required")
	}

	if _, err := time.Parse("2006-01-02", e.EventDate); err != nil {
		return errors.New("invalid event date (use YYYY-MM-DD)")
	}

	if e.FineAmount.IsNegative() {
		return errors.New("fine amount cannot be negative")
	}

	return nil
}

// ToEvent converts EventRequest to Event
func (e *EventRequest) ToEvent() *Event {
	date, _ := time.Parse("2006-01-02", e.EventDate)

	return &Event{
		Name:        e.Name,
		Description: e.Description,
		EventDate:   date,
		FineAmount:  e.FineAmount,
	}
}

// Attendance represents one member's attendance record for an event
type Attendance struct {
	ID        int             `json:"id" db:"id"`
	EventID   int             `json:"event_id" db:"event_id"`
	MemberID  int             `json:"member_id" db:"member_id"`
	Attended  bool            `json:"attended" db:"attended"`
	FinePaid  decimal.Decimal `json:"fine_paid" db:"fine_paid"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// AttendanceRequest registers a member's attendance for an event
type AttendanceRequest struct {
	MemberID int             `json:"member_id" binding:"required"`
	Attended bool            `json:"attended"`
	FinePaid decimal.Decimal `json:"fine_paid,omitempty"`
}

// ValidateAttendanceRequest validates attendance data
func (a *AttendanceRequest) ValidateAttendanceRequest() error {
	if a.FinePaid.IsNegative() {
		return errors.New("fine paid cannot be negative")
	}

	return nil
}

// EventSummary represents the accounting totals for one event
type EventSummary struct {
	EventID        int             `json:"event_id"`
	AttendedCount  int             `json:"attended_count"`
	AbsentCount    int             `json:"absent_count"`
	ExpectedFines  decimal.Decimal `json:"expected_fines"`
	CollectedFines decimal.Decimal `json:"collected_fines"`
}

// CalculateEventSummary derives the accounting totals from an event's
// attendance records. Absences owe the event fine; collected is what was
// actually paid.
func CalculateEventSummary(event *Event, records []*Attendance) *EventSummary {
	summary := &EventSummary{
		EventID:        event.ID,
		ExpectedFines:  decimal.Zero,
		CollectedFines: decimal.Zero,
	}

	for _, record := range records {
		if record.Attended {
			summary.AttendedCount++
		} else {
			summary.AbsentCount++
			summary.ExpectedFines = summary.ExpectedFines.Add(event.FineAmount)
		}
		summary.CollectedFines = summary.CollectedFines.Add(record.FinePaid)
	}

	return summary
}
