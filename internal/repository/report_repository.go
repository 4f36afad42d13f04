package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"invtrack/internal/model"
)

// ReportRepository runs read-only aggregate queries.
type ReportRepository interface {
	InventorySummary(ctx context.Context, lowStockThreshold int) (*model.InventorySummary, error)
	CategorySummaries(ctx context.Context) ([]model.CategorySummary, error)
	// MovementHistory totals movements per day for days in [from, to].
	MovementHistory(ctx context.Context, from, to time.Time) ([]model.DailyMovementSummary, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) InventorySummary(ctx context.Context, lowStockThreshold int) (*model.InventorySummary, error) {
	var summary model.InventorySummary
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Item{}).
		Select("COUNT(*) AS total_items, COALESCE(SUM(quantity), 0) AS total_quantity, COALESCE(SUM(quantity * unit_price), 0) AS total_value").
		Scan(&summary).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Category{}).Count(&summary.CategoriesCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Item{}).
		Where("quantity > 0 AND quantity <= ?", lowStockThreshold).
		Count(&summary.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Item{}).Where("quantity = 0").Count(&summary.ZeroStockCount).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reportRepository) CategorySummaries(ctx context.Context) ([]model.CategorySummary, error) {
	var summaries []model.CategorySummary
	err := r.db.WithContext(ctx).Table("categories AS c").
		Select("c.id AS id, c.name AS name, COUNT(i.id) AS items_count, " +
			"COALESCE(SUM(i.quantity), 0) AS total_quantity, " +
			"COALESCE(SUM(i.quantity * i.unit_price), 0) AS total_value").
		Joins("LEFT JOIN inventory_items AS i ON i.category_id = c.id").
		Group("c.id, c.name").
		Order("c.name").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *reportRepository) MovementHistory(ctx context.Context, from, to time.Time) ([]model.DailyMovementSummary, error) {
	start := truncateDay(from)
	end := truncateDay(to).AddDate(0, 0, 1)

	var rows []model.DailyMovementSummary
	err := r.db.WithContext(ctx).Model(&model.Movement{}).
		Select("DATE(transaction_date) AS date, "+
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN quantity ELSE 0 END), 0) AS additions, "+
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN quantity ELSE 0 END), 0) AS removals, "+
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN quantity ELSE 0 END), 0) AS adjustments",
			model.MovementAddition, model.MovementRemoval, model.MovementAdjustment).
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Group("DATE(transaction_date)").
		Order("DATE(transaction_date)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		// Drivers that decode DATE into time.Time render it as RFC 3339.
		if len(rows[i].Date) > len("2006-01-02") {
			rows[i].Date = rows[i].Date[:len("2006-01-02")]
		}
		rows[i].NetChange = rows[i].Additions - rows[i].Removals
	}
	return rows, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
