package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// MemberSvc is an implementation of the service.MemberService interface
type MemberSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewMemberService creates a new MemberSvc
func NewMemberService(deps Dependencies) *MemberSvc {
	return &MemberSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// Create creates a new member
func (s *MemberSvc) Create(ctx context.Context, req *models.MemberRequest) (int, error) {
	if err := req.ValidateMemberRequest(); err != nil {
		return 0, fmt.Errorf("invalid member data: %w", err)
	}

	_, err := s.repos.Member.GetByCedula(ctx, req.Cedula)
	if err == nil {
		return 0, errors.New("a member with this cedula already exists")
	}

	member := req.ToMember()

	id, err := s.repos.Member.Create(ctx, member)
	if err != nil {
		return 0, fmt.Errorf("failed to create member: %w", err)
	}

	s.logger.Infof("Member created: %d (%s %s)", id, member.FirstName, member.LastName)

	return id, nil
}

// GetByID gets a member by ID
func (s *MemberSvc) GetByID(ctx context.Context, id int) (*models.Member, error) {
	member, err := s.repos.Member.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetAll gets all members
func (s *MemberSvc) GetAll(ctx context.Context) ([]*models.Member, error) {
	members, err := s.repos.Member.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	return members, nil
}

// Search finds members by cedula prefix or name fragment
func (s *MemberSvc) Search(ctx context.Context, query string) ([]*models.Member, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetAll(ctx)
	}

	members, err := s.repos.Member.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}

	return members, nil
}

// Update updates a member's directory data
func (s *MemberSvc) Update(ctx context.Context, id int, req *models.MemberRequest) error {
	if err := req.ValidateMemberRequest(); err != nil {
		return fmt.Errorf("invalid member data: %w", err)
	}

	member, err := s.repos.Member.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}

	if req.Cedula != member.Cedula {
		existing, err := s.repos.Member.GetByCedula(ctx, req.Cedula)
		if err == nil && existing.ID != id {
			return errors.New("a member with this cedula already exists")
		}
	}

	member.Cedula = req.Cedula
	member.FirstName = req.FirstName
	member.LastName = req.LastName
	member.Phone = req.Phone
	member.Email = req.Email

	if err := s.repos.Member.Update(ctx, member); err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	s.logger.Infof("Member updated: %d", id)

	return nil
}

// Deactivate marks a member as inactive. Members with history are never deleted.
func (s *MemberSvc) Deactivate(ctx context.Context, id int) error {
	if _, err := s.repos.Member.GetByID(ctx, id); err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}

	if err := s.repos.Member.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	s.logger.Infof("Member deactivated: %d", id)

	return nil
}
