package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService service.LoanService
	logger      *logrus.Logger
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService service.LoanService, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

// Create handles loan creation
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	var req models.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	loan, err := h.loanService.Create(r.Context(), &req, userID)
	if err != nil {
		h.logger.Warnf("Failed to create loan: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "loan created successfully", loan)
}

// Preview handles schedule preview without persisting anything
func (h *LoanHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req models.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	schedule, summary, err := h.loanService.Preview(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to preview schedule: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "schedule preview generated", map[string]interface{}{
		"installments": schedule,
		"summary":      summary,
	})
}

// GetAll handles retrieving all loans, optionally filtered by status
func (h *LoanHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	// If a status is specified, get loans with that status only
	if status := r.URL.Query().Get("status"); status != "" {
		loans, err := h.loanService.GetByStatus(r.Context(), models.LoanStatus(strings.ToUpper(status)))
		if err != nil {
			h.logger.Warnf("Failed to get loans by status: %v", err)
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		utils.RespondWithSuccess(w, http.StatusOK, "loans retrieved successfully", loans)
		return
	}

	loans, err := h.loanService.GetAll(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to get loans: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get loans")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loans retrieved successfully", loans)
}

// GetByID handles retrieving a specific loan by ID
func (h *LoanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	loan, err := h.loanService.GetByID(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to get loan: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "loan not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan retrieved successfully", loan)
}

// GetByMember handles retrieving all loans for a member
func (h *LoanHandler) GetByMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	loans, err := h.loanService.GetByMemberID(r.Context(), memberID)
	if err != nil {
		h.logger.Warnf("Failed to get member loans: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get loans")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loans retrieved successfully", loans)
}

// GetSchedule handles retrieving the installment schedule for a loan
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	schedule, summary, err := h.loanService.GetSchedule(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to get schedule: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "schedule not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "schedule retrieved successfully", map[string]interface{}{
		"installments": schedule,
		"summary":      summary,
	})
}

// ApplyPayment handles recording a payment against one installment
func (h *LoanHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	sequence, err := pathID(r, "seq")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid installment sequence")
		return
	}

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	result, err := h.loanService.ApplyPayment(r.Context(), loanID, sequence, &req)
	if err != nil {
		h.logger.Warnf("Failed to apply payment: %v", err)
		utils.RespondWithError(w, paymentErrorCode(err), err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payment recorded successfully", result)
}

// paymentErrorCode maps engine rejections to HTTP status codes
func paymentErrorCode(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrAmountExceedsLimit):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInstallmentAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, models.ErrRemoteWriteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request, key string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[key])
}
