package service

import (
	"context"
	"errors"
	"time"

	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// ErrInvalidDateRange is returned when a report range ends before it starts.
var ErrInvalidDateRange = errors.New("end_date must not be before start_date")

// ReportService builds aggregate views of the inventory.
type ReportService interface {
	InventorySummary(ctx context.Context) (*model.InventorySummary, error)
	CategorySummaries(ctx context.Context) ([]model.CategorySummary, error)
	TransactionHistory(ctx context.Context, from, to time.Time) ([]model.DailyMovementSummary, error)
}

type reportService struct {
	repo              repository.ReportRepository
	lowStockThreshold int
}

// NewReportService builds a ReportService. Items at or below
// lowStockThreshold count as low stock.
func NewReportService(repo repository.ReportRepository, lowStockThreshold int) ReportService {
	return &reportService{repo: repo, lowStockThreshold: lowStockThreshold}
}

func (s *reportService) InventorySummary(ctx context.Context) (*model.InventorySummary, error) {
	return s.repo.InventorySummary(ctx, s.lowStockThreshold)
}

func (s *reportService) CategorySummaries(ctx context.Context) ([]model.CategorySummary, error) {
	return s.repo.CategorySummaries(ctx)
}

// TransactionHistory totals movements per day for the days from..to,
// both included.
func (s *reportService) TransactionHistory(ctx context.Context, from, to time.Time) ([]model.DailyMovementSummary, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	return s.repo.MovementHistory(ctx, from, to)
}
