package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MarketDate struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"uniqueIndex;not null"`
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *MarketDAO) ListMarketDates(ctx context.Context) ([]MarketDate, error) {
	var dates []MarketDate

	result := d.db.WithContext(ctx).Order("date ASC").Find(&dates)
	if result.Error != nil {
		return nil, result.Error
	}

	return dates, nil
}

func (d *MarketDAO) ListMarketDatesBetween(ctx context.Context, from, to time.Time) ([]MarketDate, error) {
	var dates []MarketDate

	result := d.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&dates)
	if result.Error != nil {
		return nil, result.Error
	}

	return dates, nil
}

func (d *MarketDAO) FirstMarketDateFrom(ctx context.Context, from time.Time) (MarketDate, error) {
	return d.firstMarketDate(ctx, d.db.Where("date >= ?", from).Order("date ASC"))
}

func (d *MarketDAO) LastMarketDateBefore(ctx context.Context, before time.Time) (MarketDate, error) {
	return d.firstMarketDate(ctx, d.db.Where("date < ?", before).Order("date DESC"))
}

func (d *MarketDAO) FirstMarketDate(ctx context.Context) (MarketDate, error) {
	return d.firstMarketDate(ctx, d.db.Order("date ASC"))
}

func (d *MarketDAO) firstMarketDate(ctx context.Context, query *gorm.DB) (MarketDate, error) {
	var date MarketDate

	result := query.WithContext(ctx).Limit(1).Find(&date)
	if result.Error != nil {
		return MarketDate{}, result.Error
	}
	if result.RowsAffected == 0 {
		return MarketDate{}, ErrMarketDateNotFound
	}

	return date, nil
}

func (d *MarketDAO) UpsertMarketDates(ctx context.Context, dates []MarketDate) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
		}).
		Create(&dates)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}
