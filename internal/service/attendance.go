package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

type AttendanceRepository interface {
	FindAttendanceBetween(ctx context.Context, from, to time.Time) ([]domain.AttendanceRecord, error)
}

type AttendanceService struct {
	repo AttendanceRepository
}

func NewAttendanceService(repo AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		repo: repo,
	}
}

// LoadVendorsForDate returns the vendors attending on date with their stalls.
// A nil date means no date is selected and yields an empty result. Results are
// always read live.
func (s *AttendanceService) LoadVendorsForDate(ctx context.Context, date *time.Time) ([]domain.VendorForDate, error) {
	if date == nil {
		return []domain.VendorForDate{}, nil
	}

	from, to := domain.DayRange(*date)
	records, err := s.repo.FindAttendanceBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAttendanceBetween -> %w", err)
	}

	return GroupByVendor(records), nil
}

// GroupByVendor collapses attendance records into one entry per vendor, in
// first-seen order. Records without a vendor or with a blank stall id are
// dropped. Repeated stall ids are kept.
func GroupByVendor(records []domain.AttendanceRecord) []domain.VendorForDate {
	vendors := make([]domain.VendorForDate, 0)
	index := make(map[uint]int)

	for _, record := range records {
		if record.Vendor == nil {
			continue
		}

		stallID := domain.NormalizeStallID(record.StallID)
		if stallID == "" {
			continue
		}

		i, ok := index[record.Vendor.ID]
		if !ok {
			i = len(vendors)
			index[record.Vendor.ID] = i
			vendors = append(vendors, domain.VendorForDate{
				Vendor:    *record.Vendor,
				StallList: []string{},
			})
		}

		vendors[i].StallList = append(vendors[i].StallList, stallID)
	}

	return vendors
}
