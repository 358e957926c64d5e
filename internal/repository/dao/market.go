package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDuplicateAttendance = errors.New("vendor already holds this stall on this date")
	ErrMarketDateNotFound  = errors.New("market date not found")
)

type Vendor struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;index"`
	VendorType   string
	Description  string
	Website      string
	Tags         []string `gorm:"serializer:json"`
	DefaultStall string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MarketDAO struct {
	db *gorm.DB
}

func NewMarketDAO(db *gorm.DB) *MarketDAO {
	return &MarketDAO{
		db: db,
	}
}

func (d *MarketDAO) ListVendors(ctx context.Context) ([]Vendor, error) {
	var vendors []Vendor

	result := d.db.WithContext(ctx).Order("name ASC").Find(&vendors)
	if result.Error != nil {
		return nil, result.Error
	}

	return vendors, nil
}

func (d *MarketDAO) FindVendorByID(ctx context.Context, id uint) (Vendor, error) {
	var vendor Vendor

	result := d.db.WithContext(ctx).First(&vendor, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Vendor{}, ErrVendorNotFound
		}

		return Vendor{}, result.Error
	}

	return vendor, nil
}

func (d *MarketDAO) InsertVendor(ctx context.Context, vendor Vendor) (Vendor, error) {
	result := d.db.WithContext(ctx).Create(&vendor)
	if result.Error != nil {
		return Vendor{}, result.Error
	}

	return vendor, nil
}

func (d *MarketDAO) InsertVendors(ctx context.Context, vendors []Vendor) (int, error) {
	if len(vendors) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).CreateInBatches(&vendors, 200)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		strings.Contains(pgErr.Message, constraint)
}
