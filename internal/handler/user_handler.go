package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// UserHandler handles console user HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *logrus.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles console user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var userReg models.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&userReg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, err := h.userService.Register(r.Context(), &userReg)
	if err != nil {
		h.logger.Warnf("Failed to register user: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "user registered successfully", map[string]interface{}{
		"user_id": userID,
	})
}

// Login handles console user login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var login models.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	token, err := h.userService.Login(r.Context(), &login)
	if err != nil {
		h.logger.Warnf("Failed login attempt for %s: %v", login.Username, err)
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "login successful", token)
}

// Me handles retrieving the authenticated user's profile
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Warnf("Failed to get user: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "user retrieved successfully", user)
}
