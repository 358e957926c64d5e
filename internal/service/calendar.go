package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
)

type CalendarRepository interface {
	ListMarketDatesBetween(ctx context.Context, from, to time.Time) ([]domain.MarketDate, error)
	FindAttendanceBetween(ctx context.Context, from, to time.Time) ([]domain.AttendanceRecord, error)
}

type ApprovedSignupFinder interface {
	Find(ctx context.Context, filter repository.SignupFilter) ([]domain.Signup, error)
}

// CalendarService reports how well each market day in a range is covered by
// vendors, stalls and approved helpers.
type CalendarService struct {
	repo    CalendarRepository
	signups ApprovedSignupFinder
	static  *StaticCache
}

func NewCalendarService(repo CalendarRepository, signups ApprovedSignupFinder, static *StaticCache) *CalendarService {
	return &CalendarService{
		repo:    repo,
		signups: signups,
		static:  static,
	}
}

type dayTally struct {
	vendors map[uint]struct{}
	stalls  map[string]struct{}
	roles   map[domain.SignupRole]int
}

func newDayTally() *dayTally {
	return &dayTally{
		vendors: make(map[uint]struct{}),
		stalls:  make(map[string]struct{}),
		roles:   make(map[domain.SignupRole]int),
	}
}

// Coverage covers the market days from `from` through `to`, both inclusive.
func (s *CalendarService) Coverage(ctx context.Context, from, to time.Time) ([]domain.DayCoverage, error) {
	start := domain.StartOfDay(from)
	end := domain.StartOfDay(to).AddDate(0, 0, 1)

	dates, err := s.repo.ListMarketDatesBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMarketDatesBetween -> %w", err)
	}

	records, err := s.repo.FindAttendanceBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAttendanceBetween -> %w", err)
	}

	signups, err := s.signups.Find(ctx, repository.SignupFilter{
		Status: domain.SignupApproved,
		From:   &start,
		To:     &end,
	})
	if err != nil {
		return nil, fmt.Errorf("s.signups.Find -> %w", err)
	}

	tallies := make(map[string]*dayTally)
	tally := func(day time.Time) *dayTally {
		key := domain.FormatDay(day)
		t, ok := tallies[key]
		if !ok {
			t = newDayTally()
			tallies[key] = t
		}
		return t
	}

	for _, record := range records {
		stallID := domain.NormalizeStallID(record.StallID)
		if record.Vendor == nil || stallID == "" {
			continue
		}
		t := tally(record.MarketDate)
		t.vendors[record.Vendor.ID] = struct{}{}
		t.stalls[stallID] = struct{}{}
	}

	for _, signup := range signups {
		tally(signup.MarketDate).roles[signup.Role]++
	}

	stallsTotal := len(s.static.Get(ctx).StallLayouts)

	coverage := make([]domain.DayCoverage, 0, len(dates))
	for _, d := range dates {
		t := tally(d.Date)
		coverage = append(coverage, domain.DayCoverage{
			Date:           domain.FormatDay(d.Date),
			Title:          d.Title,
			VendorCount:    len(t.vendors),
			StallsOccupied: len(t.stalls),
			StallsTotal:    stallsTotal,
			Musicians:      t.roles[domain.RoleMusician],
			Volunteers:     t.roles[domain.RoleVolunteer],
			Nonprofits:     t.roles[domain.RoleNonprofit],
		})
	}

	return coverage, nil
}
