package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// UserService defines methods for console user management
type UserService interface {
	Register(ctx context.Context, user *models.UserRegistration) (int, error)
	Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// MemberService defines methods for the member directory
type MemberService interface {
	Create(ctx context.Context, member *models.MemberRequest) (int, error)
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetAll(ctx context.Context) ([]*models.Member, error)
	Search(ctx context.Context, query string) ([]*models.Member, error)
	Update(ctx context.Context, id int, member *models.MemberRequest) error
	Deactivate(ctx context.Context, id int) error
}

// LoanService defines methods for loans, schedules and payments
type LoanService interface {
	Create(ctx context.Context, req *models.LoanRequest, createdBy int) (*models.Loan, error)
	Preview(ctx context.Context, req *models.LoanRequest) ([]*models.Installment, *models.ScheduleSummary, error)
	GetByID(ctx context.Context, id int) (*models.Loan, error)
	GetAll(ctx context.Context) ([]*models.Loan, error)
	GetByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error)
	GetByMemberID(ctx context.Context, memberID int) ([]*models.Loan, error)
	GetSchedule(ctx context.Context, loanID int) ([]*models.Installment, *models.ScheduleSummary, error)
	ApplyPayment(ctx context.Context, loanID, sequence int, req *models.PaymentRequest) (*models.PaymentResult, error)
	ProcessOverdue(ctx context.Context) error
}

// SavingService defines methods for the savings ledger
type SavingService interface {
	Deposit(ctx context.Context, req *models.SavingDepositRequest, createdBy int) (int, error)
	BatchDeposit(ctx context.Context, req *models.BatchDepositRequest, createdBy int) (int, error)
	GetHistory(ctx context.Context, memberID int) ([]*models.SavingEntry, error)
	GetBalance(ctx context.Context, memberID int) (*models.SavingBalance, error)
}

// EventService defines methods for events and attendance accounting
type EventService interface {
	Create(ctx context.Context, req *models.EventRequest) (int, error)
	GetAll(ctx context.Context) ([]*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	RegisterAttendance(ctx context.Context, eventID int, req *models.AttendanceRequest) (int, error)
	GetSummary(ctx context.Context, eventID int) (*models.EventSummary, error)
}

// ReportService defines methods for financial reporting
type ReportService interface {
	GetFinancialSummary(ctx context.Context) (*models.FinancialSummary, error)
	ExportFinancialSummaryXML(ctx context.Context) ([]byte, error)
}

// EmailService defines methods for email notifications
type EmailService interface {
	SendOverdueReminder(ctx context.Context, member *models.Member, loan *models.Loan, installment *models.Installment) error
	SendPaymentReceipt(ctx context.Context, member *models.Member, result *models.PaymentResult) error
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos  *repository.Repository
	Logger *logrus.Logger
	Config *configs.Config
}

// Service is a composition of all services
type Service struct {
	User   UserService
	Member MemberService
	Loan   LoanService
	Saving SavingService
	Event  EventService
	Report ReportService
	Email  EmailService
}

// NewService creates a new service with all sub-services
func NewService(deps Dependencies) *Service {
	return &Service{
		User:   NewUserService(deps),
		Member: NewMemberService(deps),
		Loan:   NewLoanService(deps),
		Saving: NewSavingService(deps),
		Event:  NewEventService(deps),
		Report: NewReportService(deps),
		Email:  NewEmailService(deps),
	}
}
