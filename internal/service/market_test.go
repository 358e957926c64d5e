package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

func TestMarketServiceAssignStall(t *testing.T) {
	repo := &fakeMarketRepo{
		vendors: []domain.Vendor{{ID: 1, Name: "Hilltop Honey", DefaultStall: "a7"}},
	}
	svc := NewMarketService(repo)
	ctx := context.Background()

	record, err := svc.AssignStall(ctx, 1, day("2026-05-02"), " b3 ")
	require.NoError(t, err)
	assert.Equal(t, "B3", record.StallID)

	record, err = svc.AssignStall(ctx, 1, day("2026-05-02"), "")
	require.NoError(t, err)
	assert.Equal(t, "A7", record.StallID)

	_, err = svc.AssignStall(ctx, 1, day("2026-05-02"), "b3")
	assert.ErrorIs(t, err, ErrDuplicateAttendance)

	_, err = svc.AssignStall(ctx, 2, day("2026-05-02"), "b3")
	assert.ErrorIs(t, err, ErrVendorNotFound)

	_, err = svc.AssignStall(ctx, 1, day("2026-05-02"), "lobby")
	assert.ErrorIs(t, err, ErrInvalidStallID)
}

func TestMarketServiceRemoveAssignment(t *testing.T) {
	repo := &fakeMarketRepo{
		attendance: []domain.AttendanceRecord{{ID: 4, VendorID: 1, StallID: "A1"}},
	}
	svc := NewMarketService(repo)

	require.NoError(t, svc.RemoveAssignment(context.Background(), 4))
	assert.ErrorIs(t, svc.RemoveAssignment(context.Background(), 4), ErrAttendanceNotFound)
}

func TestMarketServiceCreateVendor(t *testing.T) {
	svc := NewMarketService(&fakeMarketRepo{})

	vendor, err := svc.CreateVendor(context.Background(), domain.Vendor{Name: "Prairie Greens", DefaultStall: " c2"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), vendor.ID)
	assert.Equal(t, "C2", vendor.DefaultStall)
	assert.Equal(t, []string{}, vendor.Tags)
}
