package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const attendanceUniqueIndex = "idx_attendance_vendor_date_stall"

type MarketAttendance struct {
	ID         uint      `gorm:"primaryKey"`
	VendorID   *uint     `gorm:"uniqueIndex:idx_attendance_vendor_date_stall"`
	Vendor     *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:SET NULL"`
	MarketDate time.Time `gorm:"not null;index;uniqueIndex:idx_attendance_vendor_date_stall"`
	StallID    string    `gorm:"uniqueIndex:idx_attendance_vendor_date_stall"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (MarketAttendance) TableName() string {
	return "market_attendance"
}

// FindAttendanceBetween returns the attendance in [from, to) with vendors
// preloaded, in insertion order.
func (d *MarketDAO) FindAttendanceBetween(ctx context.Context, from, to time.Time) ([]MarketAttendance, error) {
	var records []MarketAttendance

	result := d.db.WithContext(ctx).
		Preload("Vendor").
		Where("market_date >= ? AND market_date < ?", from, to).
		Order("id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (d *MarketDAO) CountAttendanceBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&MarketAttendance{}).
		Where("market_date >= ? AND market_date < ?", from, to).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *MarketDAO) InsertAttendance(ctx context.Context, record MarketAttendance) (MarketAttendance, error) {
	result := d.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		if isUniqueViolation(result.Error, attendanceUniqueIndex) {
			return MarketAttendance{}, ErrDuplicateAttendance
		}

		return MarketAttendance{}, result.Error
	}

	return record, nil
}

func (d *MarketDAO) DeleteAttendance(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&MarketAttendance{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}

func (d *MarketDAO) FindAttendanceByID(ctx context.Context, id uint) (MarketAttendance, error) {
	var record MarketAttendance

	result := d.db.WithContext(ctx).Preload("Vendor").First(&record, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MarketAttendance{}, ErrAttendanceNotFound
		}

		return MarketAttendance{}, result.Error
	}

	return record, nil
}
