package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// UserRole defines the role of a console user
type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleTreasurer UserRole = "TREASURER"
)

// User represents an administrative console user
type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"-"`
	PassHash  string    `json:"-" db:"password_hash"`
	FullName  string    `json:"full_name,omitempty" db:"full_name"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserRegistration represents console user registration data
type UserRegistration struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email" binding:"required"`
	Password string   `json:"password" binding:"required"`
	FullName string   `json:"full_name,omitempty"`
	Role     UserRole `json:"role,omitempty"`
}

// UserLogin represents user login data
type UserLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ValidateRegistration validates console user registration data
func (u *UserRegistration) ValidateRegistration() error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)

	if len(u.Username) < 3 || len(u.Username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}

	emailPattern := `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	matched, err := regexp.MatchString(emailPattern, u.Email)
	if err != nil || !matched {
		return errors.New("invalid email format")
	}

	if len(u.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hasUppercase := regexp.MustCompile(`[A-Z]`).MatchString(u.Password)
	hasLowercase := regexp.MustCompile(`[a-z]`).MatchString(u.Password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(u.Password)

	if !hasUppercase || !hasLowercase || !hasNumber {
		return errors.New("password must contain at least one uppercase letter, one lowercase letter, and one number")
	}

	switch u.Role {
	case "", UserRoleAdmin, UserRoleTreasurer:
		// Empty defaults to TREASURER
	default:
		return errors.New("invalid role")
	}

	return nil
}

// ToUser converts UserRegistration to User
func (u *UserRegistration) ToUser() *User {
	role := u.Role
	if role == "" {
		role = UserRoleTreasurer
	}

	return &User{
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
		FullName: u.FullName,
		Role:     role,
	}
}
