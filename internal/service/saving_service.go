package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// SavingSvc is an implementation of the service.SavingService interface
type SavingSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewSavingService creates a new SavingSvc
func NewSavingService(deps Dependencies) *SavingSvc {
	return &SavingSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// Deposit records a single savings contribution
func (s *SavingSvc) Deposit(ctx context.Context, req *models.SavingDepositRequest, createdBy int) (int, error) {
	if err := req.ValidateDeposit(); err != nil {
		return 0, fmt.Errorf("invalid deposit: %w", err)
	}

	if _, err := s.repos.Member.GetByID(ctx, req.MemberID); err != nil {
		return 0, fmt.Errorf("member not found: %w", err)
	}

	entry := &models.SavingEntry{
		MemberID:  req.MemberID,
		Amount:    req.Amount,
		Concept:   req.Concept,
		EntryDate: time.Now(),
		CreatedBy: createdBy,
	}

	id, err := s.repos.Saving.Create(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("failed to record deposit: %w", err)
	}

	s.logger.Infof("Savings deposit recorded: %d for member %d, amount %s", id, req.MemberID, req.Amount.StringFixed(2))

	return id, nil
}

// BatchDeposit applies one contribution amount to many members in a single
// transaction. Either every entry is recorded or none is.
func (s *SavingSvc) BatchDeposit(ctx context.Context, req *models.BatchDepositRequest, createdBy int) (int, error) {
	if err := req.ValidateBatchDeposit(); err != nil {
		return 0, fmt.Errorf("invalid batch deposit: %w", err)
	}

	now := time.Now()
	entries := make([]*models.SavingEntry, 0, len(req.MemberIDs))

	for _, memberID := range req.MemberIDs {
		if _, err := s.repos.Member.GetByID(ctx, memberID); err != nil {
			return 0, fmt.Errorf("member %d not found: %w", memberID, err)
		}

		entries = append(entries, &models.SavingEntry{
			MemberID:  memberID,
			Amount:    req.Amount,
			Concept:   req.Concept,
			EntryDate: now,
			CreatedBy: createdBy,
		})
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.repos.Saving.CreateBatchTx(ctx, tx, entries); err != nil {
		return 0, fmt.Errorf("failed to record batch deposit: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Infof("Batch deposit recorded: %d members, amount %s each", len(entries), req.Amount.StringFixed(2))

	return len(entries), nil
}

// GetHistory gets a member's savings entries
func (s *SavingSvc) GetHistory(ctx context.Context, memberID int) ([]*models.SavingEntry, error) {
	entries, err := s.repos.Saving.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings history: %w", err)
	}

	return entries, nil
}

// GetBalance gets a member's savings balance
func (s *SavingSvc) GetBalance(ctx context.Context, memberID int) (*models.SavingBalance, error) {
	if _, err := s.repos.Member.GetByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}

	balance, err := s.repos.Saving.GetBalance(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings balance: %w", err)
	}

	return balance, nil
}
