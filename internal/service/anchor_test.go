package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

func TestForwardAnchorResolver(t *testing.T) {
	dates := []domain.MarketDate{
		{Date: day("2026-05-02")},
		{Date: day("2026-05-09")},
		{Date: day("2026-05-16")},
	}

	tests := []struct {
		name  string
		dates []domain.MarketDate
		today string
		want  string
	}{
		{"today is a market day", dates, "2026-05-09", "2026-05-09"},
		{"next market day", dates, "2026-05-10", "2026-05-16"},
		{"season over falls back to latest", dates, "2026-06-01", "2026-05-16"},
		{"before the season", dates, "2026-01-01", "2026-05-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewForwardAnchorResolver(&fakeMarketRepo{dates: tt.dates})

			got, err := r.FindAnchorDate(context.Background(), day(tt.today))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, domain.FormatDay(*got))
		})
	}
}

func TestForwardAnchorResolverNoDates(t *testing.T) {
	r := NewForwardAnchorResolver(&fakeMarketRepo{})

	got, err := r.FindAnchorDate(context.Background(), day("2026-05-02"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestForwardAnchorResolverStoreError(t *testing.T) {
	r := NewForwardAnchorResolver(&fakeMarketRepo{err: errDBDown})

	_, err := r.FindAnchorDate(context.Background(), day("2026-05-02"))
	assert.ErrorIs(t, err, errDBDown)
}

func TestNextSaturday(t *testing.T) {
	assert.Equal(t, "2026-05-02", domain.FormatDay(NextSaturday(day("2026-05-02"))))
	assert.Equal(t, "2026-05-09", domain.FormatDay(NextSaturday(day("2026-05-03"))))
	assert.Equal(t, "2026-05-09", domain.FormatDay(NextSaturday(day("2026-05-08"))))
}

func TestSaturdayAnchorResolver(t *testing.T) {
	vendor := &domain.Vendor{ID: 1}
	repo := &fakeMarketRepo{
		attendance: []domain.AttendanceRecord{
			{Vendor: vendor, MarketDate: day("2026-05-23"), StallID: "A1"},
		},
	}
	r := NewSaturdayAnchorResolver(repo, 8)

	// Sunday the 3rd: the 9th and 16th are empty, the 23rd has data.
	got, err := r.FindAnchorDate(context.Background(), day("2026-05-03"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-05-23", domain.FormatDay(*got))
	assert.Len(t, repo.countCalls, 3)
}

func TestSaturdayAnchorResolverGivesUp(t *testing.T) {
	repo := &fakeMarketRepo{}
	r := NewSaturdayAnchorResolver(repo, 4)

	got, err := r.FindAnchorDate(context.Background(), day("2026-05-03"))
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Len(t, repo.countCalls, 4)
}

func TestNewAnchorResolver(t *testing.T) {
	repo := &fakeMarketRepo{}

	r, err := NewAnchorResolver("forward", repo, 8)
	require.NoError(t, err)
	assert.IsType(t, &ForwardAnchorResolver{}, r)

	r, err = NewAnchorResolver("saturday", repo, 8)
	require.NoError(t, err)
	assert.IsType(t, &SaturdayAnchorResolver{}, r)

	_, err = NewAnchorResolver("saturday", repo, 0)
	assert.ErrorIs(t, err, ErrInvalidLookaheadWeek)

	_, err = NewAnchorResolver("sunday", repo, 8)
	assert.ErrorIs(t, err, ErrUnknownAnchorPolicy)
}
