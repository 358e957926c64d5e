package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

func newTestMapService(t *testing.T, repo *fakeMarketRepo, static *fakeStaticRepo) *MapService {
	t.Helper()

	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	svc := NewMapService(
		NewAttendanceService(repo),
		NewStaticCache(static, StaticCacheConfig{Limit: 1000}),
		NewForwardAnchorResolver(repo),
		repo,
		chicago,
	)
	// Friday evening in Dubuque, already Saturday in UTC.
	svc.now = func() time.Time { return time.Date(2026, 5, 9, 2, 0, 0, 0, time.UTC) }

	return svc
}

func TestMapServiceMapData(t *testing.T) {
	vendor := &domain.Vendor{ID: 1, Name: "Hilltop Honey"}
	repo := &fakeMarketRepo{
		attendance: []domain.AttendanceRecord{
			{Vendor: vendor, MarketDate: day("2026-05-02"), StallID: "a1"},
		},
	}
	static := &fakeStaticRepo{
		layouts: []domain.StallLayout{{StallID: "A1"}},
		pois:    []domain.POI{{Title: "Info", POIType: domain.POIInformation}},
	}
	svc := newTestMapService(t, repo, static)

	date := day("2026-05-02")
	data, err := svc.MapData(context.Background(), &date)
	require.NoError(t, err)

	assert.Equal(t, "2026-05-02", data.CurrentDate)
	require.Len(t, data.VendorsOnDate, 1)
	assert.Equal(t, []string{"A1"}, data.VendorsOnDate[0].StallList)
	assert.Len(t, data.AllStallLayouts, 1)
	assert.Len(t, data.AllPois, 1)
}

func TestMapServiceMapDataWithoutDate(t *testing.T) {
	svc := newTestMapService(t, &fakeMarketRepo{}, &fakeStaticRepo{})

	data, err := svc.MapData(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, data.CurrentDate)
	assert.NotNil(t, data.VendorsOnDate)
	assert.NotNil(t, data.AllStallLayouts)
	assert.NotNil(t, data.AllPois)
}

func TestMapServiceAnchorDateUsesMarketTimezone(t *testing.T) {
	repo := &fakeMarketRepo{
		dates: []domain.MarketDate{{Date: day("2026-05-08")}, {Date: day("2026-05-09")}},
	}
	svc := newTestMapService(t, repo, &fakeStaticRepo{})

	got, err := svc.AnchorDate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-05-08", domain.FormatDay(*got))
}

func TestMapServiceDateOptions(t *testing.T) {
	repo := &fakeMarketRepo{
		dates: []domain.MarketDate{
			{Date: day("2026-05-02")},
			{Date: day("2026-05-09"), Title: "Opening Day"},
		},
	}
	svc := newTestMapService(t, repo, &fakeStaticRepo{})

	options, err := svc.DateOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DateOption{
		{Label: "Saturday, May 2, 2026", Value: "2026-05-02"},
		{Label: "Opening Day (Saturday, May 9, 2026)", Value: "2026-05-09"},
	}, options)
}
