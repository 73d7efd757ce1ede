package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
	logger       *logrus.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// Create handles event creation
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	eventID, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create event: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "event created successfully", map[string]interface{}{
		"event_id": eventID,
	})
}

// GetAll handles listing all events
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.GetAll(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to get events: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get events")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "events retrieved successfully", events)
}

// GetByID handles retrieving a specific event by ID
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	event, err := h.eventService.GetByID(r.Context(), eventID)
	if err != nil {
		h.logger.Warnf("Failed to get event: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "event retrieved successfully", event)
}

// RegisterAttendance handles registering a member's attendance for an event
func (h *EventHandler) RegisterAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	var req models.AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	attendanceID, err := h.eventService.RegisterAttendance(r.Context(), eventID, &req)
	if err != nil {
		h.logger.Warnf("Failed to register attendance: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "attendance registered successfully", map[string]interface{}{
		"attendance_id": attendanceID,
	})
}

// GetSummary handles retrieving the accounting summary for an event
func (h *EventHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	summary, err := h.eventService.GetSummary(r.Context(), eventID)
	if err != nil {
		h.logger.Warnf("Failed to get event summary: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "event summary retrieved successfully", summary)
}
