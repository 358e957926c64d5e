package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

func TestCalendarCoverage(t *testing.T) {
	honey := &domain.Vendor{ID: 1}
	greens := &domain.Vendor{ID: 2}

	repo := &fakeMarketRepo{
		dates: []domain.MarketDate{
			{Date: day("2026-05-02"), Title: "Opening Day"},
			{Date: day("2026-05-09")},
			{Date: day("2026-05-16")},
		},
		attendance: []domain.AttendanceRecord{
			{Vendor: honey, MarketDate: day("2026-05-02"), StallID: "a1"},
			{Vendor: honey, MarketDate: day("2026-05-02"), StallID: "A2"},
			{Vendor: greens, MarketDate: day("2026-05-02"), StallID: "A1 "},
			{Vendor: nil, MarketDate: day("2026-05-02"), StallID: "A9"},
			{Vendor: greens, MarketDate: day("2026-05-09"), StallID: "B1"},
		},
	}
	signups := &fakeSignupRepo{
		signups: []domain.Signup{
			{ID: 1, Role: domain.RoleMusician, Status: domain.SignupApproved, MarketDate: day("2026-05-02")},
			{ID: 2, Role: domain.RoleVolunteer, Status: domain.SignupApproved, MarketDate: day("2026-05-02")},
			{ID: 3, Role: domain.RoleVolunteer, Status: domain.SignupPending, MarketDate: day("2026-05-02")},
			{ID: 4, Role: domain.RoleNonprofit, Status: domain.SignupApproved, MarketDate: day("2026-05-09")},
		},
	}
	static := NewStaticCache(&fakeStaticRepo{
		layouts: []domain.StallLayout{{StallID: "A1"}, {StallID: "A2"}, {StallID: "B1"}},
	}, StaticCacheConfig{Limit: 1000})

	svc := NewCalendarService(repo, signups, static)

	coverage, err := svc.Coverage(context.Background(), day("2026-05-02"), day("2026-05-09"))
	require.NoError(t, err)

	assert.Equal(t, []domain.DayCoverage{
		{
			Date: "2026-05-02", Title: "Opening Day",
			VendorCount: 2, StallsOccupied: 2, StallsTotal: 3,
			Musicians: 1, Volunteers: 1,
		},
		{
			Date:        "2026-05-09",
			VendorCount: 1, StallsOccupied: 1, StallsTotal: 3,
			Nonprofits: 1,
		},
	}, coverage)
}
