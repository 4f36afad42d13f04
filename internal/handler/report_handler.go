package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"invtrack/internal/service"
)

const defaultHistoryDays = 30

// ReportHandler serves the aggregate report endpoints.
type ReportHandler struct {
	svc service.ReportService
	now func() time.Time
}

// NewReportHandler creates a report handler.
func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc, now: time.Now}
}

// InventorySummary godoc
// @Summary Inventory totals
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.InventorySummary
// @Router /reports/inventory-summary [get]
func (h *ReportHandler) InventorySummary(c echo.Context) error {
	summary, err := h.svc.InventorySummary(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// CategorySummary godoc
// @Summary Totals per category
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CategorySummary
// @Router /reports/category-summary [get]
func (h *ReportHandler) CategorySummary(c echo.Context) error {
	summaries, err := h.svc.CategorySummaries(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// TransactionHistory godoc
// @Summary Transaction totals per day
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "First day, YYYY-MM-DD (default 30 days ago)"
// @Param end_date query string false "Last day, YYYY-MM-DD (default today)"
// @Success 200 {array} model.DailyMovementSummary
// @Failure 400 {object} errors.ErrorResponse
// @Router /reports/transaction-history [get]
func (h *ReportHandler) TransactionHistory(c echo.Context) error {
	today := h.now().UTC().Truncate(24 * time.Hour)

	from, err := queryDate(c, "start_date", today.AddDate(0, 0, -defaultHistoryDays))
	if err != nil {
		return err
	}
	to, err := queryDate(c, "end_date", today)
	if err != nil {
		return err
	}

	days, err := h.svc.TransactionHistory(c.Request().Context(), from, to)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidDateRange) {
			return badRequest(err.Error(), "INVALID_DATE_RANGE")
		}
		return fail(err)
	}
	return c.JSON(http.StatusOK, days)
}
