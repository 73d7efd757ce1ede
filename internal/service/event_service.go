package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// EventSvc is an implementation of the service.EventService interface
type EventSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewEventService creates a new EventSvc
func NewEventService(deps Dependencies) *EventSvc {
	return &EventSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// Create creates a new event
func (s *EventSvc) Create(ctx context.Context, req *models.EventRequest) (int, error) {
	if err := req.ValidateEventRequest(); err != nil {
		return 0, fmt.Errorf("invalid event data: %w", err)
	}

	event := req.ToEvent()

	id, err := s.repos.Event.Create(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Infof("Event created: %d (%s)", id, event.Name)

	return id, nil
}

// GetAll gets all events
func (s *EventSvc) GetAll(ctx context.Context) ([]*models.Event, error) {
	events, err := s.repos.Event.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return events, nil
}

// GetByID gets an event by ID
func (s *EventSvc) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.repos.Event.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// RegisterAttendance records a member's attendance for an event
func (s *EventSvc) RegisterAttendance(ctx context.Context, eventID int, req *models.AttendanceRequest) (int, error) {
	if err := req.ValidateAttendanceRequest(); err != nil {
		return 0, fmt.Errorf("invalid attendance data: %w", err)
	}

	if _, err := s.repos.Event.GetByID(ctx, eventID); err != nil {
		return 0, fmt.Errorf("event not found: %w", err)
	}

	if _, err := s.repos.Member.GetByID(ctx, req.MemberID); err != nil {
		return 0, fmt.Errorf("member not found: %w", err)
	}

	attendance := &models.Attendance{
		EventID:  eventID,
		MemberID: req.MemberID,
		Attended: req.Attended,
		FinePaid: req.FinePaid,
	}

	id, err := s.repos.Event.RegisterAttendance(ctx, attendance)
	if err != nil {
		return 0, fmt.Errorf("failed to register attendance: %w", err)
	}

	return id, nil
}

// GetSummary computes the accounting totals for an event
func (s *EventSvc) GetSummary(ctx context.Context, eventID int) (*models.EventSummary, error) {
	event, err := s.repos.Event.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	records, err := s.repos.Event.GetAttendance(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return models.CalculateEventSummary(event, records), nil
}
