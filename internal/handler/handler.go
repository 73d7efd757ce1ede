package handler

import (
	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/service"
)

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	User   *UserHandler
	Member *MemberHandler
	Loan   *LoanHandler
	Saving *SavingHandler
	Event  *EventHandler
	Report *ReportHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		User:   NewUserHandler(deps.Services.User, deps.Logger),
		Member: NewMemberHandler(deps.Services.Member, deps.Logger),
		Loan:   NewLoanHandler(deps.Services.Loan, deps.Logger),
		Saving: NewSavingHandler(deps.Services.Saving, deps.Logger),
		Event:  NewEventHandler(deps.Services.Event, deps.Logger),
		Report: NewReportHandler(deps.Services.Report, deps.Logger),
	}
}
