package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository/postgres"
)

// UserRepository defines methods for console user persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// MemberRepository defines methods for member persistence
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) (int, error)
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetByCedula(ctx context.Context, cedula string) (*models.Member, error)
	Search(ctx context.Context, query string) ([]*models.Member, error)
	GetAll(ctx context.Context) ([]*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Deactivate(ctx context.Context, id int) error
}

// LoanRepository defines methods for loan persistence
type LoanRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, loan *models.Loan) (int, error)
	GetByID(ctx context.Context, id int) (*models.Loan, error)
	GetByMemberID(ctx context.Context, memberID int) ([]*models.Loan, error)
	GetAll(ctx context.Context) ([]*models.Loan, error)
	GetByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error)
	UpdateStatus(ctx context.Context, id int, status models.LoanStatus) error
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int, status models.LoanStatus) error
}

// InstallmentRepository defines methods for installment persistence
type InstallmentRepository interface {
	CreateBatchTx(ctx context.Context, tx *sql.Tx, installments []*models.Installment) error
	GetByLoanID(ctx context.Context, loanID int) ([]*models.Installment, error)
	GetByLoanIDTx(ctx context.Context, tx *sql.Tx, loanID int) ([]*models.Installment, error)
	GetByLoanAndSequence(ctx context.Context, loanID, sequence int) (*models.Installment, error)
	GetByLoanAndSequenceForUpdateTx(ctx context.Context, tx *sql.Tx, loanID, sequence int) (*models.Installment, error)
	UpdatePaymentTx(ctx context.Context, tx *sql.Tx, installment *models.Installment) error
	GetUnpaidDueBefore(ctx context.Context, date time.Time) ([]*models.Installment, error)
}

// SavingRepository defines methods for the savings ledger
type SavingRepository interface {
	Create(ctx context.Context, entry *models.SavingEntry) (int, error)
	CreateBatchTx(ctx context.Context, tx *sql.Tx, entries []*models.SavingEntry) error
	GetByMemberID(ctx context.Context, memberID int) ([]*models.SavingEntry, error)
	GetBalance(ctx context.Context, memberID int) (*models.SavingBalance, error)
}

// EventRepository defines methods for events and attendance
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (int, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	GetAll(ctx context.Context) ([]*models.Event, error)
	RegisterAttendance(ctx context.Context, attendance *models.Attendance) (int, error)
	GetAttendance(ctx context.Context, eventID int) ([]*models.Attendance, error)
}

// ReportRepository defines aggregate queries for financial reporting
type ReportRepository interface {
	LoanAggregates(ctx context.Context) (disbursed, recovered, interestEarned decimal.Decimal, err error)
	LoanCountsByStatus(ctx context.Context) (map[models.LoanStatus]int, error)
	SavingsTotal(ctx context.Context) (decimal.Decimal, error)
	EventFinesTotal(ctx context.Context) (decimal.Decimal, error)
}

// Repository is a composition of all repositories
type Repository struct {
	DB          *sql.DB
	User        UserRepository
	Member      MemberRepository
	Loan        LoanRepository
	Installment InstallmentRepository
	Saving      SavingRepository
	Event       EventRepository
	Report      ReportRepository
}

// NewRepository creates a new repository with all sub-repositories
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:          db,
		User:        postgres.NewUserRepository(db),
		Member:      postgres.NewMemberRepository(db),
		Loan:        postgres.NewLoanRepository(db),
		Installment: postgres.NewInstallmentRepository(db),
		Saving:      postgres.NewSavingRepository(db),
		Event:       postgres.NewEventRepository(db),
		Report:      postgres.NewReportRepository(db),
	}
}

// BeginTx begins a new transaction
func (r *Repository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.DB.BeginTx(ctx, nil)
}
