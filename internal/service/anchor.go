package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
)

var (
	ErrMarketDateNotFound   = repository.ErrMarketDateNotFound
	ErrUnknownAnchorPolicy  = errors.New("unknown anchor policy")
	ErrInvalidLookaheadWeek = errors.New("anchor lookahead must be at least one week")
)

// AnchorResolver picks the market day shown when the map opens without a
// user-chosen date. A nil result means there is no suitable day.
type AnchorResolver interface {
	FindAnchorDate(ctx context.Context, today time.Time) (*time.Time, error)
}

type MarketDateRepository interface {
	FirstMarketDateFrom(ctx context.Context, from time.Time) (domain.MarketDate, error)
	LastMarketDateBefore(ctx context.Context, before time.Time) (domain.MarketDate, error)
	FirstMarketDate(ctx context.Context) (domain.MarketDate, error)
}

type AttendanceCounter interface {
	CountAttendanceBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// ForwardAnchorResolver looks at the market calendar: the earliest market day
// on or after today, else the latest one before today, else the earliest one
// on record. The day it returns may have no attendance.
type ForwardAnchorResolver struct {
	repo MarketDateRepository
}

func NewForwardAnchorResolver(repo MarketDateRepository) *ForwardAnchorResolver {
	return &ForwardAnchorResolver{
		repo: repo,
	}
}

func (r *ForwardAnchorResolver) FindAnchorDate(ctx context.Context, today time.Time) (*time.Time, error) {
	today = domain.StartOfDay(today)

	lookups := []struct {
		name string
		find func() (domain.MarketDate, error)
	}{
		{"r.repo.FirstMarketDateFrom", func() (domain.MarketDate, error) { return r.repo.FirstMarketDateFrom(ctx, today) }},
		{"r.repo.LastMarketDateBefore", func() (domain.MarketDate, error) { return r.repo.LastMarketDateBefore(ctx, today) }},
		{"r.repo.FirstMarketDate", func() (domain.MarketDate, error) { return r.repo.FirstMarketDate(ctx) }},
	}

	for _, lookup := range lookups {
		found, err := lookup.find()
		if err == nil {
			day := domain.StartOfDay(found.Date)
			return &day, nil
		}
		if !errors.Is(err, ErrMarketDateNotFound) {
			return nil, fmt.Errorf("%s -> %w", lookup.name, err)
		}
	}

	return nil, nil
}

// SaturdayAnchorResolver walks weekly Saturdays starting with the next one
// (today included) and returns the first that has attendance. It gives up
// after lookaheadWeeks Saturdays.
type SaturdayAnchorResolver struct {
	repo           AttendanceCounter
	lookaheadWeeks int
}

func NewSaturdayAnchorResolver(repo AttendanceCounter, lookaheadWeeks int) *SaturdayAnchorResolver {
	return &SaturdayAnchorResolver{
		repo:           repo,
		lookaheadWeeks: lookaheadWeeks,
	}
}

func NextSaturday(today time.Time) time.Time {
	today = domain.StartOfDay(today)
	daysAhead := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, daysAhead)
}

func (r *SaturdayAnchorResolver) FindAnchorDate(ctx context.Context, today time.Time) (*time.Time, error) {
	first := NextSaturday(today)

	for week := 0; week < r.lookaheadWeeks; week++ {
		day := first.AddDate(0, 0, 7*week)
		from, to := domain.DayRange(day)

		n, err := r.repo.CountAttendanceBetween(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("r.repo.CountAttendanceBetween -> %w", err)
		}
		if n > 0 {
			return &day, nil
		}
	}

	return nil, nil
}

type AnchorRepository interface {
	MarketDateRepository
	AttendanceCounter
}

// NewAnchorResolver builds the resolver for policy, "forward" or "saturday".
func NewAnchorResolver(policy string, repo AnchorRepository, lookaheadWeeks int) (AnchorResolver, error) {
	switch policy {
	case "forward":
		return NewForwardAnchorResolver(repo), nil
	case "saturday":
		if lookaheadWeeks < 1 {
			return nil, ErrInvalidLookaheadWeek
		}
		return NewSaturdayAnchorResolver(repo, lookaheadWeeks), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnchorPolicy, policy)
	}
}
