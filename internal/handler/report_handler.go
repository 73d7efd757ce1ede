package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/utils"
)

// ReportHandler handles financial reporting HTTP requests
type ReportHandler struct {
	reportService service.ReportService
	logger        *logrus.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetSummary handles retrieving the financial summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.GetFinancialSummary(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to get financial summary: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get financial summary")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "financial summary retrieved successfully", summary)
}

// ExportXML handles exporting the financial summary as XML
func (h *ReportHandler) ExportXML(w http.ResponseWriter, r *http.Request) {
	out, err := h.reportService.ExportFinancialSummaryXML(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to export financial summary: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to export financial summary")
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="financial_summary.xml"`)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
