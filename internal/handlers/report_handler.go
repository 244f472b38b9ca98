package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mykhata/internal/services"
)

// ReportHandler serves the dashboard summary and charts.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary returns totals per type and the net balance
// @Summary     Ledger summary
// @Description Total income, expense, loan and EMI with the balance (income minus every outflow). An empty ledger returns zero totals with empty=true.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       owner     query string false "Sub-user whose ledger to read (default: caller)"
// @Param       from_date query string false "Filter by start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (YYYY-MM-DD)"
// @Param       type      query string false "Filter by transaction type"
// @Param       category  query string false "Filter by category"
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(sess, c.Query("owner"), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetChart returns totals per type bucketed by day, month or year
// @Summary     Ledger chart
// @Description Totals grouped by period and type, plus a label/value series per type for plotting. An empty ledger returns empty=true with message "No data".
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       granularity query string false "day, month or year (default month)"
// @Param       owner       query string false "Sub-user whose ledger to read (default: caller)"
// @Param       from_date   query string false "Filter by start date (YYYY-MM-DD)"
// @Param       to_date     query string false "Filter by end date (YYYY-MM-DD)"
// @Param       type        query string false "Filter by transaction type"
// @Param       category    query string false "Filter by category"
// @Success     200 {object} services.Chart "Chart"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chart [get]
func (h *ReportHandler) GetChart(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	chart, err := h.reportService.Chart(sess, c.Query("owner"), c.Query("granularity"), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}
