package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Member represents an association member (socio)
type Member struct {
	ID        int       `json:"id" db:"id"`
	Cedula    string    `json:"cedula" db:"cedula"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Email     string    `json:"email,omitempty" db:"email"`
	JoinDate  time.Time `json:"join_date" db:"join_date"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MemberRequest represents member creation or update data
type MemberRequest struct {
	Cedula    string `json:"cedula" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

var cedulaPattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidateMemberRequest validates member data
func (m *MemberRequest) ValidateMemberRequest() error {
	m.Cedula = strings.TrimSpace(m.Cedula)
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Email = strings.TrimSpace(m.Email)

	if !cedulaPattern.MatchString(m.Cedula) {
		return errors.New("cedula must be exactly 10 digits")
	}

	if m.FirstName == "" || m.LastName == "" {
		return errors.New("first name and last name are required")
	}

	if m.Email != "" {
		emailPattern := `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
		matched, err := regexp.MatchString(emailPattern, m.Email)
		if err != nil || !matched {
			return errors.New("invalid email format")
		}
	}

	return nil
}

// ToMember converts MemberRequest to Member
func (m *MemberRequest) ToMember() *Member {
	return &Member{
		Cedula:    m.Cedula,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		JoinDate:  time.Now(),
		IsActive:  true,
	}
}
