package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// SavingHandler handles savings-related HTTP requests
type SavingHandler struct {
	savingService service.SavingService
	logger        *logrus.Logger
}

// NewSavingHandler creates a new SavingHandler
func NewSavingHandler(savingService service.SavingService, logger *logrus.Logger) *SavingHandler {
	return &SavingHandler{
		savingService: savingService,
		logger:        logger,
	}
}

// Deposit handles recording a single savings contribution
func (h *SavingHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	var req models.SavingDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	entryID, err := h.savingService.Deposit(r.Context(), &req, userID)
	if err != nil {
		h.logger.Warnf("Failed to record deposit: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "deposit recorded successfully", map[string]interface{}{
		"entry_id": entryID,
	})
}

// BatchDeposit handles applying one contribution to many members at once
func (h *SavingHandler) BatchDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	var req models.BatchDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	count, err := h.savingService.BatchDeposit(r.Context(), &req, userID)
	if err != nil {
		h.logger.Warnf("Failed to record batch deposit: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "batch deposit recorded successfully", map[string]interface{}{
		"entries_created": count,
	})
}

// GetHistory handles retrieving a member's savings entries
func (h *SavingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	entries, err := h.savingService.GetHistory(r.Context(), memberID)
	if err != nil {
		h.logger.Warnf("Failed to get savings history: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get savings history")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "savings history retrieved successfully", entries)
}

// GetBalance handles retrieving a member's savings balance
func (h *SavingHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	balance, err := h.savingService.GetBalance(r.Context(), memberID)
	if err != nil {
		h.logger.Warnf("Failed to get savings balance: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "member not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "savings balance retrieved successfully", balance)
}
