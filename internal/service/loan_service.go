package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// LoanSvc is an implementation of the service.LoanService interface
type LoanSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	email  EmailService
	policy models.LoanPolicy
}

// NewLoanService creates a new LoanSvc
func NewLoanService(deps Dependencies) *LoanSvc {
	return &LoanSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		email:  NewEmailService(deps),
		policy: deps.Config.LoanPolicy(),
	}
}

// Create creates a new loan and its full installment schedule atomically
func (s *LoanSvc) Create(ctx context.Context, req *models.LoanRequest, createdBy int) (*models.Loan, error) {
	if err := req.Validate(s.policy); err != nil {
		return nil, err
	}

	member, err := s.repos.Member.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}

	if !member.IsActive {
		return nil, errors.New("member is not active")
	}

	loan := req.ToLoan(s.policy, createdBy)

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	loanID, err := s.repos.Loan.CreateTx(ctx, tx, loan)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	loan.ID = loanID
	schedule := loan.GenerateInstallments()

	err = s.repos.Installment.CreateBatchTx(ctx, tx, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to create installment schedule: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Infof("Loan created: %d for member %d, capital %s, term %d months, rate %s",
		loan.ID, loan.MemberID, loan.Capital.StringFixed(2), loan.TermMonths, loan.MonthlyRate.String())

	return loan, nil
}

// Preview generates a schedule without persisting anything
func (s *LoanSvc) Preview(ctx context.Context, req *models.LoanRequest) ([]*models.Installment, *models.ScheduleSummary, error) {
	if err := req.Validate(s.policy); err != nil {
		return nil, nil, err
	}

	schedule := models.GenerateSchedule(req.Capital, req.TermMonths, s.policy.MonthlyRate, req.ParsedStartDate())
	summary := models.CalculateScheduleSummary(schedule, time.Now())

	return schedule, summary, nil
}

// GetByID gets a loan by ID
func (s *LoanSvc) GetByID(ctx context.Context, id int) (*models.Loan, error) {
	loan, err := s.repos.Loan.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return loan, nil
}

// GetAll gets all loans
func (s *LoanSvc) GetAll(ctx context.Context) ([]*models.Loan, error) {
	loans, err := s.repos.Loan.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}

	return loans, nil
}

// GetByStatus gets all loans with a given status
func (s *LoanSvc) GetByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error) {
	switch status {
	case models.LoanStatusPending, models.LoanStatusSettled, models.LoanStatusOverdue:
	default:
		return nil, fmt.Errorf("unknown loan status %q", status)
	}

	loans, err := s.repos.Loan.GetByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}

	return loans, nil
}

// GetByMemberID gets all loans for a member
func (s *LoanSvc) GetByMemberID(ctx context.Context, memberID int) ([]*models.Loan, error) {
	loans, err := s.repos.Loan.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}

	return loans, nil
}

// GetSchedule gets the installment schedule for a loan with derived statuses
// refreshed against the current date
func (s *LoanSvc) GetSchedule(ctx context.Context, loanID int) ([]*models.Installment, *models.ScheduleSummary, error) {
	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get loan: %w", err)
	}

	installments, err := s.repos.Installment.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get installments: %w", err)
	}

	now := time.Now()

	for _, installment := range installments {
		installment.RefreshStatus()
	}

	// The stored loan status is a cache of the derived value; refresh it when stale.
	derived := models.ResolveLoanStatus(installments, now)
	if derived != loan.Status {
		if err := s.repos.Loan.UpdateStatus(ctx, loanID, derived); err != nil {
			s.logger.Warnf("Failed to refresh loan %d status: %v", loanID, err)
		}
	}

	summary := models.CalculateScheduleSummary(installments, now)

	return installments, summary, nil
}

// ApplyPayment validates and records a payment against one installment.
// Validation runs before any write; the installment row is locked for the
// duration of the transaction so concurrent payments serialize at the store.
func (s *LoanSvc) ApplyPayment(ctx context.Context, loanID, sequence int, req *models.PaymentRequest) (*models.PaymentResult, error) {
	amount := req.Amount

	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	if amount.GreaterThan(s.policy.PaymentCeiling) {
		return nil, models.ErrAmountExceedsLimit
	}

	current, err := s.repos.Installment.GetByLoanAndSequence(ctx, loanID, sequence)
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}

	if models.ResolveInstallmentStatus(current.ExpectedAmount, current.AmountPaid) == models.InstallmentStatusPaid {
		return nil, models.ErrInstallmentAlreadySettled
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Re-read under a row lock: the pre-check above may be stale by now.
	locked, err := s.repos.Installment.GetByLoanAndSequenceForUpdateTx(ctx, tx, loanID, sequence)
	if err != nil {
		return nil, fmt.Errorf("failed to lock installment: %w", err)
	}

	applied, err := models.ApplyPayment(locked, amount, s.policy.PaymentCeiling)
	if err != nil {
		return nil, err
	}

	if err = s.repos.Installment.UpdatePaymentTx(ctx, tx, locked); err != nil {
		err = fmt.Errorf("%w: %v", models.ErrRemoteWriteFailed, err)
		return nil, err
	}

	// Read the siblings through the same transaction so the loan-status
	// recompute sees the schedule as of the locked row.
	installments, err := s.repos.Installment.GetByLoanIDTx(ctx, tx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}

	for i, installment := range installments {
		if installment.ID == locked.ID {
			installments[i] = locked
		}
	}

	now := time.Now()
	loanStatus := models.ResolveLoanStatus(installments, now)

	if err = s.repos.Loan.UpdateStatusTx(ctx, tx, loanID, loanStatus); err != nil {
		err = fmt.Errorf("%w: %v", models.ErrRemoteWriteFailed, err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("%w: %v", models.ErrRemoteWriteFailed, err)
		return nil, err
	}

	result := &models.PaymentResult{
		ReceiptID:     uuid.NewString(),
		LoanID:        loanID,
		Sequence:      sequence,
		AmountApplied: applied,
		AmountPaid:    locked.AmountPaid,
		Status:        locked.Status,
		LoanStatus:    loanStatus,
		PaidAt:        now,
	}

	s.logger.Infof("Payment recorded: receipt %s, loan %d installment %d, applied %s, installment %s, loan %s",
		result.ReceiptID, loanID, sequence, applied.StringFixed(2), locked.Status, loanStatus)

	go s.notifyPayment(loanID, result)

	return result, nil
}

// ProcessOverdue marks loans with past-due unpaid installments as overdue and
// sends reminder emails. Run daily by the scheduler.
func (s *LoanSvc) ProcessOverdue(ctx context.Context) error {
	now := time.Now()
	s.logger.Infof("Processing overdue installments as of %s", now.Format("2006-01-02"))

	overdue, err := s.repos.Installment.GetUnpaidDueBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to get overdue installments: %w", err)
	}

	byLoan := make(map[int]*models.Installment)
	for _, installment := range overdue {
		// Keep the earliest overdue installment per loan for the reminder.
		if _, seen := byLoan[installment.LoanID]; !seen {
			byLoan[installment.LoanID] = installment
		}
	}

	s.logger.Infof("Found %d overdue installments across %d loans", len(overdue), len(byLoan))

	for loanID, installment := range byLoan {
		loan, err := s.repos.Loan.GetByID(ctx, loanID)
		if err != nil {
			s.logger.Warnf("Failed to get loan %d: %v", loanID, err)
			continue
		}

		if loan.Status != models.LoanStatusOverdue {
			if err := s.repos.Loan.UpdateStatus(ctx, loanID, models.LoanStatusOverdue); err != nil {
				s.logger.Warnf("Failed to mark loan %d overdue: %v", loanID, err)
				continue
			}
		}

		member, err := s.repos.Member.GetByID(ctx, loan.MemberID)
		if err != nil {
			s.logger.Warnf("Failed to get member %d for loan %d: %v", loan.MemberID, loanID, err)
			continue
		}

		go func(member *models.Member, loan *models.Loan, installment *models.Installment) {
			ctx := context.Background()
			if err := s.email.SendOverdueReminder(ctx, member, loan, installment); err != nil {
				s.logger.Warnf("Failed to send overdue reminder: %v", err)
			}
		}(member, loan, installment)
	}

	return nil
}

func (s *LoanSvc) notifyPayment(loanID int, result *models.PaymentResult) {
	ctx := context.Background()

	loan, err := s.repos.Loan.GetByID(ctx, loanID)
	if err != nil {
		s.logger.Warnf("Failed to get loan %d for receipt email: %v", loanID, err)
		return
	}

	member, err := s.repos.Member.GetByID(ctx, loan.MemberID)
	if err != nil {
		s.logger.Warnf("Failed to get member %d for receipt email: %v", loan.MemberID, err)
		return
	}

	if err := s.email.SendPaymentReceipt(ctx, member, result); err != nil {
		s.logger.Warnf("Failed to send payment receipt: %v", err)
	}
}
