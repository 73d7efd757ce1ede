package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
	"github.com/Diego200509/asotema-sub000/pkg/crypto"
)

// UserSvc is an implementation of the service.UserService interface
type UserSvc struct {
	repos     *repository.Repository
	logger    *logrus.Logger
	config    *configs.Config
	hasher    *crypto.PasswordHasher
	jwtSecret string
	jwtTTL    time.Duration
}

// NewUserService creates a new UserSvc
func NewUserService(deps Dependencies) *UserSvc {
	return &UserSvc{
		repos:     deps.Repos,
		logger:    deps.Logger,
		config:    deps.Config,
		hasher:    crypto.NewPasswordHasher(),
		jwtSecret: deps.Config.JWT.Secret,
		jwtTTL:    time.Duration(deps.Config.JWT.TTL) * time.Hour,
	}
}

// Register registers a new console user
func (s *UserSvc) Register(ctx context.Context, userReg *models.UserRegistration) (int, error) {
	if err := userReg.ValidateRegistration(); err != nil {
		return 0, fmt.Errorf("invalid user data: %w", err)
	}

	_, err := s.repos.User.GetByUsername(ctx, userReg.Username)
	if err == nil {
		return 0, errors.New("username already exists")
	}

	_, err = s.repos.User.GetByEmail(ctx, userReg.Email)
	if err == nil {
		return 0, errors.New("email already exists")
	}

	user := userReg.ToUser()

	hashedPassword, err := s.hasher.HashPassword(user.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PassHash = hashedPassword

	id, err := s.repos.User.Create(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("User registered: %d (%s)", id, user.Role)

	return id, nil
}

// Login logs in a console user and returns a JWT token
func (s *UserSvc) Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error) {
	user, err := s.repos.User.GetByUsername(ctx, login.Username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !s.hasher.CheckPasswordHash(login.Password, user.PassHash) {
		return nil, errors.New("invalid credentials")
	}

	expirationTime := time.Now().Add(s.jwtTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Infof("User logged in: %d", user.ID)

	return &models.TokenResponse{
		Token:     tokenString,
		ExpiresAt: expirationTime.Unix(),
	}, nil
}

// GetByID gets a user by ID
func (s *UserSvc) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.PassHash = ""

	return user, nil
}
