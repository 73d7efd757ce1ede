package service

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/models"
	"github.com/Diego200509/asotema-sub000/internal/repository"
)

// ReportSvc is an implementation of the service.ReportService interface
type ReportSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewReportService creates a new ReportSvc
func NewReportService(deps Dependencies) *ReportSvc {
	return &ReportSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// GetFinancialSummary computes the association's aggregate financial position
func (s *ReportSvc) GetFinancialSummary(ctx context.Context) (*models.FinancialSummary, error) {
	disbursed, recovered, interestEarned, err := s.repos.Report.LoanAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan aggregates: %w", err)
	}

	counts, err := s.repos.Report.LoanCountsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan counts: %w", err)
	}

	savings, err := s.repos.Report.SavingsTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get savings total: %w", err)
	}

	fines, err := s.repos.Report.EventFinesTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get event fines total: %w", err)
	}

	summary := &models.FinancialSummary{
		GeneratedAt:         time.Now(),
		ActiveLoans:         counts[models.LoanStatusPending],
		SettledLoans:        counts[models.LoanStatusSettled],
		OverdueLoans:        counts[models.LoanStatusOverdue],
		CapitalDisbursed:    disbursed,
		CapitalRecovered:    recovered,
		CapitalOutstanding:  disbursed.Sub(recovered),
		InterestEarned:      interestEarned,
		SavingsHeld:         savings,
		EventFinesCollected: fines,
	}

	return summary, nil
}

// ExportFinancialSummaryXML builds the XML export of the financial summary
func (s *ReportSvc) ExportFinancialSummaryXML(ctx context.Context) ([]byte, error) {
	summary, err := s.GetFinancialSummary(ctx)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("FinancialSummary")
	root.CreateAttr("generatedAt", summary.GeneratedAt.Format(time.RFC3339))

	loans := root.CreateElement("Loans")
	loans.CreateElement("Active").SetText(fmt.Sprintf("%d", summary.ActiveLoans))
	loans.CreateElement("Settled").SetText(fmt.Sprintf("%d", summary.SettledLoans))
	loans.CreateElement("Overdue").SetText(fmt.Sprintf("%d", summary.OverdueLoans))
	loans.CreateElement("CapitalDisbursed").SetText(summary.CapitalDisbursed.StringFixed(2))
	loans.CreateElement("CapitalRecovered").SetText(summary.CapitalRecovered.StringFixed(2))
	loans.CreateElement("CapitalOutstanding").SetText(summary.CapitalOutstanding.StringFixed(2))
	loans.CreateElement("InterestEarned").SetText(summary.InterestEarned.StringFixed(2))

	root.CreateElement("SavingsHeld").SetText(summary.SavingsHeld.StringFixed(2))
	root.CreateElement("EventFinesCollected").SetText(summary.EventFinesCollected.StringFixed(2))

	doc.Indent(2)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	s.logger.Infof("Financial summary exported: %d bytes", len(out))

	return out, nil
}
