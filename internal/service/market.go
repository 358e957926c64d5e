package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
)

var (
	ErrVendorNotFound      = repository.ErrVendorNotFound
	ErrAttendanceNotFound  = repository.ErrAttendanceNotFound
	ErrDuplicateAttendance = repository.ErrDuplicateAttendance
	ErrInvalidStallID      = errors.New("invalid stall id")
)

type MarketRepository interface {
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	FindVendorByID(ctx context.Context, id uint) (domain.Vendor, error)
	CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
	FindAttendanceBetween(ctx context.Context, from, to time.Time) ([]domain.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
	DeleteAttendance(ctx context.Context, id uint) error
}

// MarketService manages the vendor roster and weekly stall assignments.
type MarketService struct {
	repo MarketRepository
}

func NewMarketService(repo MarketRepository) *MarketService {
	return &MarketService{
		repo: repo,
	}
}

func (s *MarketService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListVendors -> %w", err)
	}

	return vendors, nil
}

func (s *MarketService) CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	vendor.DefaultStall = domain.NormalizeStallID(vendor.DefaultStall)
	if vendor.Tags == nil {
		vendor.Tags = []string{}
	}

	created, err := s.repo.CreateVendor(ctx, vendor)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("s.repo.CreateVendor -> %w", err)
	}

	return created, nil
}

func (s *MarketService) ListAttendance(ctx context.Context, date time.Time) ([]domain.AttendanceRecord, error) {
	from, to := domain.DayRange(date)
	records, err := s.repo.FindAttendanceBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAttendanceBetween -> %w", err)
	}

	return records, nil
}

// AssignStall books stallID for a vendor on date. An empty stallID falls back
// to the vendor's default stall.
func (s *MarketService) AssignStall(ctx context.Context, vendorID uint, date time.Time, stallID string) (domain.AttendanceRecord, error) {
	vendor, err := s.repo.FindVendorByID(ctx, vendorID)
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("s.repo.FindVendorByID -> %w", err)
	}

	stallID = domain.NormalizeStallID(stallID)
	if stallID == "" {
		stallID = domain.NormalizeStallID(vendor.DefaultStall)
	}
	if !domain.ValidStallID(stallID) {
		return domain.AttendanceRecord{}, fmt.Errorf("%w: %q", ErrInvalidStallID, stallID)
	}

	record, err := s.repo.CreateAttendance(ctx, domain.AttendanceRecord{
		VendorID:   vendor.ID,
		MarketDate: domain.StartOfDay(date),
		StallID:    stallID,
	})
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("s.repo.CreateAttendance -> %w", err)
	}

	zap.L().Info("stall assigned",
		zap.Uint("vendor_id", vendor.ID),
		zap.String("stall_id", stallID),
		zap.String("date", domain.FormatDay(date)))

	return record, nil
}

func (s *MarketService) RemoveAssignment(ctx context.Context, id uint) error {
	if err := s.repo.DeleteAttendance(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteAttendance -> %w", err)
	}

	return nil
}
