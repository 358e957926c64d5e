package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

type MarketDateLister interface {
	ListMarketDates(ctx context.Context) ([]domain.MarketDate, error)
}

// MapService assembles everything the visitor map needs for one market day.
type MapService struct {
	attendance *AttendanceService
	static     *StaticCache
	anchor     AnchorResolver
	dates      MarketDateLister
	loc        *time.Location
	now        func() time.Time
}

func NewMapService(attendance *AttendanceService, static *StaticCache, anchor AnchorResolver, dates MarketDateLister, loc *time.Location) *MapService {
	return &MapService{
		attendance: attendance,
		static:     static,
		anchor:     anchor,
		dates:      dates,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *MapService) AnchorDate(ctx context.Context) (*time.Time, error) {
	day, err := s.anchor.FindAnchorDate(ctx, domain.Today(s.now(), s.loc))
	if err != nil {
		return nil, fmt.Errorf("s.anchor.FindAnchorDate -> %w", err)
	}

	return day, nil
}

func (s *MapService) MapData(ctx context.Context, date *time.Time) (domain.MapData, error) {
	vendors, err := s.attendance.LoadVendorsForDate(ctx, date)
	if err != nil {
		return domain.MapData{}, fmt.Errorf("s.attendance.LoadVendorsForDate -> %w", err)
	}

	static := s.static.Get(ctx)

	data := domain.MapData{
		VendorsOnDate:   vendors,
		AllStallLayouts: static.StallLayouts,
		AllPois:         static.POIs,
	}
	if date != nil {
		data.CurrentDate = domain.FormatDay(*date)
	}

	return data, nil
}

func (s *MapService) DateOptions(ctx context.Context) ([]domain.DateOption, error) {
	dates, err := s.dates.ListMarketDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.dates.ListMarketDates -> %w", err)
	}

	options := make([]domain.DateOption, len(dates))
	for i, d := range dates {
		label := domain.DisplayDay(d.Date, s.loc)
		if d.Title != "" {
			label = d.Title + " (" + label + ")"
		}
		options[i] = domain.DateOption{
			Label: label,
			Value: domain.FormatDay(d.Date),
		}
	}

	return options, nil
}
