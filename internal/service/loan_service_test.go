package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// stubDB builds a *sql.DB whose transactions are no-ops, so service flows
// that open a transaction can run against the fake repositories.
func stubDB() *sql.DB {
	return sql.OpenDB(stubConnector{})
}

type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{}, nil }
func (stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

// fakeLoanRepo is an in-memory LoanRepository double that counts calls
type fakeLoanRepo struct {
	loans         map[int]*models.Loan
	getByIDCalls  int
	updateCalls   int
	updateTxCalls int
	byStatusCalls int
	updatedStatus models.LoanStatus
}

func (f *fakeLoanRepo) CreateTx(ctx context.Context, tx *sql.Tx, loan *models.Loan) (int, error) {
	return 0, errors.New("unexpected CreateTx call")
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id int) (*models.Loan, error) {
	f.getByIDCalls++
	loan, ok := f.loans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return loan, nil
}

func (f *fakeLoanRepo) GetByMemberID(ctx context.Context, memberID int) ([]*models.Loan, error) {
	return nil, nil
}

func (f *fakeLoanRepo) GetAll(ctx context.Context) ([]*models.Loan, error) {
	return nil, nil
}

func (f *fakeLoanRepo) GetByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error) {
	f.byStatusCalls++
	var loans []*models.Loan
	for _, loan := range f.loans {
		if loan.Status == status {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (f *fakeLoanRepo) UpdateStatus(ctx context.Context, id int, status models.LoanStatus) error {
	f.updateCalls++
	f.updatedStatus = status
	return nil
}

func (f *fakeLoanRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int, status models.LoanStatus) error {
	f.updateTxCalls++
	f.updatedStatus = status
	return nil
}

// fakeInstallmentRepo is an in-memory InstallmentRepository double
type fakeInstallmentRepo struct {
	installments     []*models.Installment
	getBySeqCalls    int
	getByLoanCalls   int
	lockCalls        int
	updatePaymentErr error
}

func (f *fakeInstallmentRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, installments []*models.Installment) error {
	return errors.New("unexpected CreateBatchTx call")
}

func (f *fakeInstallmentRepo) GetByLoanID(ctx context.Context, loanID int) ([]*models.Installment, error) {
	f.getByLoanCalls++
	return f.installments, nil
}

func (f *fakeInstallmentRepo) GetByLoanIDTx(ctx context.Context, tx *sql.Tx, loanID int) ([]*models.Installment, error) {
	f.getByLoanCalls++
	return f.installments, nil
}

func (f *fakeInstallmentRepo) GetByLoanAndSequence(ctx context.Context, loanID, sequence int) (*models.Installment, error) {
	f.getBySeqCalls++
	for _, installment := range f.installments {
		if installment.LoanID == loanID && installment.Sequence == sequence {
			return installment, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeInstallmentRepo) GetByLoanAndSequenceForUpdateTx(ctx context.Context, tx *sql.Tx, loanID, sequence int) (*models.Installment, error) {
	f.lockCalls++
	return f.GetByLoanAndSequence(ctx, loanID, sequence)
}

func (f *fakeInstallmentRepo) UpdatePaymentTx(ctx context.Context, tx *sql.Tx, installment *models.Installment) error {
	return f.updatePaymentErr
}

func (f *fakeInstallmentRepo) GetUnpaidDueBefore(ctx context.Context, date time.Time) ([]*models.Installment, error) {
	return nil, nil
}

// fakeMemberRepo is an in-memory MemberRepository double
type fakeMemberRepo struct {
	members      map[int]*models.Member
	getByIDCalls int
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *models.Member) (int, error) {
	return 0, errors.New("unexpected Create call")
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id int) (*models.Member, error) {
	f.getByIDCalls++
	member, ok := f.members[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return member, nil
}

func (f *fakeMemberRepo) GetByCedula(ctx context.Context, cedula string) (*models.Member, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeMemberRepo) Search(ctx context.Context, query string) ([]*models.Member, error) {
	return nil, nil
}

func (f *fakeMemberRepo) GetAll(ctx context.Context) ([]*models.Member, error) {
	return nil, nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, member *models.Member) error {
	return errors.New("unexpected Update call")
}

func (f *fakeMemberRepo) Deactivate(ctx context.Context, id int) error {
	return errors.New("unexpected Deactivate call")
}

func testConfig() *configs.Config {
	return &configs.Config{
		Loan: configs.LoanConfig{
			MinCapital:     d("100.00"),
			MaxCapital:     d("20000.00"),
			AllowedTerms:   []int{3, 6, 12, 18, 24, 36},
			MonthlyRate:    d("0.01"),
			PaymentCeiling: d("10000.00"),
		},
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestLoanService wires a LoanSvc against fake repositories. The DB handle
// is nil: any test that reaches BeginTx without meaning to will panic loudly.
func newTestLoanService(loans *fakeLoanRepo, installments *fakeInstallmentRepo, members *fakeMemberRepo) *LoanSvc {
	return newTestLoanServiceDB(nil, loans, installments, members)
}

// newTestLoanServiceDB is the same wiring with a stub DB for flows that open
// a transaction
func newTestLoanServiceDB(db *sql.DB, loans *fakeLoanRepo, installments *fakeInstallmentRepo, members *fakeMemberRepo) *LoanSvc {
	repos := &repository.Repository{
		DB:          db,
		Loan:        loans,
		Installment: installments,
		Member:      members,
	}

	return NewLoanService(Dependencies{
		Repos:  repos,
		Logger: testLogger(),
		Config: testConfig(),
	})
}

func TestApplyPaymentRejectsBeforeAnyStoreAccess(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"zero amount", "0.00", models.ErrInvalidAmount},
		{"negative amount", "-25.00", models.ErrInvalidAmount},
		{"above ceiling", "10000.01", models.ErrAmountExceedsLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installments := &fakeInstallmentRepo{}
			svc := newTestLoanService(&fakeLoanRepo{}, installments, &fakeMemberRepo{})

			result, err := svc.ApplyPayment(context.Background(), 1, 1, &models.PaymentRequest{Amount: d(tt.amount)})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)

			// The amount is rejected before the store is ever consulted.
			assert.Equal(t, 0, installments.getBySeqCalls)
			assert.Equal(t, 0, installments.lockCalls)
		})
	}
}

func TestApplyPaymentRejectsSettledBeforeTransaction(t *testing.T) {
	installments := &fakeInstallmentRepo{
		installments: []*models.Installment{
			{
				ID:             10,
				LoanID:         1,
				Sequence:       1,
				ExpectedAmount: d("343.33"),
				AmountPaid:     d("343.33"),
				Status:         models.InstallmentStatusPaid,
			},
		},
	}
	svc := newTestLoanService(&fakeLoanRepo{}, installments, &fakeMemberRepo{})

	result, err := svc.ApplyPayment(context.Background(), 1, 1, &models.PaymentRequest{Amount: d("50.00")})
	require.ErrorIs(t, err, models.ErrInstallmentAlreadySettled)
	assert.Nil(t, result)

	// Settled installments are caught on the pre-check read, before the
	// transaction (and its row lock) is ever opened.
	assert.Equal(t, 1, installments.getBySeqCalls)
	assert.Equal(t, 0, installments.lockCalls)
}

func TestApplyPaymentStoreWriteFailure(t *testing.T) {
	loans := &fakeLoanRepo{}
	installments := &fakeInstallmentRepo{
		installments: []*models.Installment{
			{
				ID:             10,
				LoanID:         1,
				Sequence:       1,
				ExpectedAmount: d("343.33"),
				AmountPaid:     decimal.Zero,
				Status:         models.InstallmentStatusPending,
			},
		},
		updatePaymentErr: errors.New("connection reset by peer"),
	}
	svc := newTestLoanServiceDB(stubDB(), loans, installments, &fakeMemberRepo{})

	result, err := svc.ApplyPayment(context.Background(), 1, 1, &models.PaymentRequest{Amount: d("100.00")})
	require.ErrorIs(t, err, models.ErrRemoteWriteFailed)
	assert.Nil(t, result)

	// The accepted payment failed to persist: the loan status is never written.
	assert.Equal(t, 0, loans.updateTxCalls)
}

func TestApplyPaymentRecordsAndSettles(t *testing.T) {
	loans := &fakeLoanRepo{}
	installments := &fakeInstallmentRepo{
		installments: []*models.Installment{
			{
				ID:             10,
				LoanID:         1,
				Sequence:       1,
				ExpectedAmount: d("343.33"),
				AmountPaid:     d("100.00"),
				Status:         models.InstallmentStatusPartial,
			},
		},
	}
	svc := newTestLoanServiceDB(stubDB(), loans, installments, &fakeMemberRepo{})

	result, err := svc.ApplyPayment(context.Background(), 1, 1, &models.PaymentRequest{Amount: d("243.33")})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.ReceiptID)
	assert.True(t, result.AmountApplied.Equal(d("243.33")))
	assert.True(t, result.AmountPaid.Equal(d("343.33")))
	assert.Equal(t, models.InstallmentStatusPaid, result.Status)
	assert.Equal(t, models.LoanStatusSettled, result.LoanStatus)

	assert.Equal(t, 1, installments.lockCalls)
	assert.Equal(t, 1, loans.updateTxCalls)
	assert.Equal(t, models.LoanStatusSettled, loans.updatedStatus)
}

func TestGetByStatus(t *testing.T) {
	loans := &fakeLoanRepo{
		loans: map[int]*models.Loan{
			1: {ID: 1, Status: models.LoanStatusOverdue},
			2: {ID: 2, Status: models.LoanStatusPending},
		},
	}
	svc := newTestLoanService(loans, &fakeInstallmentRepo{}, &fakeMemberRepo{})

	overdue, err := svc.GetByStatus(context.Background(), models.LoanStatusOverdue)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, 1, overdue[0].ID)

	_, err = svc.GetByStatus(context.Background(), models.LoanStatus("CANCELLED"))
	require.Error(t, err)
	assert.Equal(t, 1, loans.byStatusCalls, "unknown statuses never reach the store")
}

func TestCreateRejectsPolicyViolationsBeforeAnyStoreAccess(t *testing.T) {
	tests := []struct {
		name    string
		request models.LoanRequest
	}{
		{"capital below minimum", models.LoanRequest{MemberID: 1, Capital: d("50.00"), TermMonths: 12}},
		{"capital above maximum", models.LoanRequest{MemberID: 1, Capital: d("30000.00"), TermMonths: 12}},
		{"term not offered", models.LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := &fakeMemberRepo{}
			svc := newTestLoanService(&fakeLoanRepo{}, &fakeInstallmentRepo{}, members)

			loan, err := svc.Create(context.Background(), &tt.request, 1)
			require.ErrorIs(t, err, models.ErrInvalidCapitalOrTerm)
			assert.Nil(t, loan)
			assert.Equal(t, 0, members.getByIDCalls)
		})
	}
}

func TestCreateRejectsInactiveMember(t *testing.T) {
	members := &fakeMemberRepo{
		members: map[int]*models.Member{
			5: {ID: 5, FirstName: "Rosa", LastName: "Paredes", IsActive: false},
		},
	}
	svc := newTestLoanService(&fakeLoanRepo{}, &fakeInstallmentRepo{}, members)

	request := &models.LoanRequest{MemberID: 5, Capital: d("1000.00"), TermMonths: 12}
	loan, err := svc.Create(context.Background(), request, 1)
	require.Error(t, err)
	assert.Nil(t, loan)
	assert.Contains(t, err.Error(), "not active")
}

func TestPreviewGeneratesScheduleWithoutPersisting(t *testing.T) {
	loans := &fakeLoanRepo{}
	installments := &fakeInstallmentRepo{}
	svc := newTestLoanService(loans, installments, &fakeMemberRepo{})

	request := &models.LoanRequest{MemberID: 1, Capital: d("1000.00"), TermMonths: 3, StartDate: "2024-01-01"}
	schedule, summary, err := svc.Preview(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, schedule, 3)
	require.NotNil(t, summary)

	assert.True(t, summary.TotalCapital.Equal(d("1000.00")))
	assert.True(t, summary.TotalInterest.Equal(d("30.00")))
	assert.True(t, summary.TotalExpected.Equal(d("1030.00")))
	assert.Equal(t, 3, summary.PendingInstallments)

	// Preview never touches the repositories.
	assert.Equal(t, 0, loans.getByIDCalls)
	assert.Equal(t, 0, installments.getByLoanCalls)
}

func TestPreviewUsesPolicyRate(t *testing.T) {
	svc := newTestLoanService(&fakeLoanRepo{}, &fakeInstallmentRepo{}, &fakeMemberRepo{})

	request := &models.LoanRequest{MemberID: 1, Capital: d("2000.00"), TermMonths: 6, StartDate: "2024-01-01"}
	schedule, _, err := svc.Preview(context.Background(), request)
	require.NoError(t, err)

	for _, installment := range schedule {
		assert.True(t, installment.InterestPortion.Equal(d("20.00")))
	}
}

func TestGetScheduleRefreshesStaleLoanStatus(t *testing.T) {
	// The stored status says PENDING, but every installment is paid: the
	// derived status wins and the stale cache gets rewritten.
	loans := &fakeLoanRepo{
		loans: map[int]*models.Loan{
			1: {ID: 1, MemberID: 5, Status: models.LoanStatusPending},
		},
	}
	installments := &fakeInstallmentRepo{
		installments: []*models.Installment{
			{LoanID: 1, Sequence: 1, ExpectedAmount: d("343.33"), AmountPaid: d("343.33")},
			{LoanID: 1, Sequence: 2, ExpectedAmount: d("343.33"), AmountPaid: d("343.33")},
			{LoanID: 1, Sequence: 3, ExpectedAmount: d("343.34"), AmountPaid: d("343.34")},
		},
	}
	svc := newTestLoanService(loans, installments, &fakeMemberRepo{})

	schedule, summary, err := svc.GetSchedule(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	assert.Equal(t, 1, loans.updateCalls)
	assert.Equal(t, models.LoanStatusSettled, loans.updatedStatus)
	assert.Equal(t, 3, summary.PaidInstallments)

	for _, installment := range schedule {
		assert.Equal(t, models.InstallmentStatusPaid, installment.Status)
	}
}

func TestGetScheduleKeepsFreshLoanStatus(t *testing.T) {
	future := time.Now().AddDate(0, 1, 0)

	loans := &fakeLoanRepo{
		loans: map[int]*models.Loan{
			1: {ID: 1, MemberID: 5, Status: models.LoanStatusPending},
		},
	}
	installments := &fakeInstallmentRepo{
		installments: []*models.Installment{
			{LoanID: 1, Sequence: 1, DueDate: future, ExpectedAmount: d("343.33"), AmountPaid: d("0.00")},
		},
	}
	svc := newTestLoanService(loans, installments, &fakeMemberRepo{})

	_, _, err := svc.GetSchedule(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, loans.updateCalls)
}
