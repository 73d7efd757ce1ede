package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService service.MemberService
	logger        *logrus.Logger
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService service.MemberService, logger *logrus.Logger) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

// Create handles member creation
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	memberID, err := h.memberService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create member: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "member created successfully", map[string]interface{}{
		"member_id": memberID,
	})
}

// GetAll handles listing and searching members (?q= filters by cedula or name)
func (h *MemberHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	members, err := h.memberService.Search(r.Context(), query)
	if err != nil {
		h.logger.Warnf("Failed to get members: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get members")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "members retrieved successfully", members)
}

// GetByID handles retrieving a specific member by ID
func (h *MemberHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	member, err := h.memberService.GetByID(r.Context(), memberID)
	if err != nil {
		h.logger.Warnf("Failed to get member: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "member not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "member retrieved successfully", member)
}

// Update handles updating a member
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	var req models.MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.memberService.Update(r.Context(), memberID, &req); err != nil {
		h.logger.Warnf("Failed to update member: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "member updated successfully", nil)
}

// Deactivate handles marking a member as inactive
func (h *MemberHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	if err := h.memberService.Deactivate(r.Context(), memberID); err != nil {
		h.logger.Warnf("Failed to deactivate member: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "member not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "member deactivated successfully", nil)
}
