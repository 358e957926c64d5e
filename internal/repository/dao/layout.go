package dao

import (
	"context"
	"time"

	"gorm.io/gorm/clause"
)

type StallLayout struct {
	ID        uint   `gorm:"primaryKey"`
	StallID   string `gorm:"uniqueIndex;not null"`
	Lng       float64
	Lat       float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type POI struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null;uniqueIndex:idx_pois_title_type"`
	POIType     string `gorm:"column:poi_type;not null;uniqueIndex:idx_pois_title_type"`
	Description string
	Lng         float64
	Lat         float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (POI) TableName() string {
	return "pois"
}

func (d *MarketDAO) ListStallLayouts(ctx context.Context, limit int) ([]StallLayout, error) {
	var layouts []StallLayout

	result := d.db.WithContext(ctx).Order("stall_id ASC").Limit(limit).Find(&layouts)
	if result.Error != nil {
		return nil, result.Error
	}

	return layouts, nil
}

func (d *MarketDAO) ListPOIs(ctx context.Context, limit int) ([]POI, error) {
	var pois []POI

	result := d.db.WithContext(ctx).Order("id ASC").Limit(limit).Find(&pois)
	if result.Error != nil {
		return nil, result.Error
	}

	return pois, nil
}

func (d *MarketDAO) UpsertStallLayouts(ctx context.Context, layouts []StallLayout) (int, error) {
	if len(layouts) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stall_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lng", "lat", "updated_at"}),
		}).
		Create(&layouts)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func (d *MarketDAO) UpsertPOIs(ctx context.Context, pois []POI) (int, error) {
	if len(pois) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}, {Name: "poi_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "lng", "lat", "updated_at"}),
		}).
		Create(&pois)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}
