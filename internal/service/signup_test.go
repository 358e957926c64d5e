package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
)

func TestSignupServiceWorkflow(t *testing.T) {
	repo := &fakeSignupRepo{}
	svc := NewSignupService(repo)
	ctx := context.Background()

	created, err := svc.Submit(ctx, domain.Signup{
		Role:       domain.RoleMusician,
		Name:       "Bluff Street Trio",
		Email:      "trio@example.com",
		MarketDate: day("2026-05-02"),
		Status:     domain.SignupApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SignupPending, created.Status)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupApproved, approved.Status)
	assert.NotNil(t, approved.ReviewedAt)

	_, err = svc.Reject(ctx, created.ID, "too late")
	assert.ErrorIs(t, err, ErrSignupNotPending)

	_, err = svc.Approve(ctx, 99)
	assert.ErrorIs(t, err, ErrSignupNotFound)
}

func TestSignupServiceList(t *testing.T) {
	repo := &fakeSignupRepo{}
	svc := NewSignupService(repo)
	ctx := context.Background()

	for _, role := range []domain.SignupRole{domain.RoleMusician, domain.RoleVolunteer, domain.RoleVolunteer} {
		_, err := svc.Submit(ctx, domain.Signup{Role: role, Name: "x", Email: "x@example.com", MarketDate: day("2026-05-02")})
		require.NoError(t, err)
	}
	_, err := svc.Reject(ctx, 2, "full")
	require.NoError(t, err)

	volunteers, err := svc.List(ctx, repository.SignupFilter{Role: domain.RoleVolunteer})
	require.NoError(t, err)
	assert.Len(t, volunteers, 2)

	pending, err := svc.List(ctx, repository.SignupFilter{Status: domain.SignupPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestSignupServiceConcurrentReview(t *testing.T) {
	repo := &fakeSignupRepo{}
	svc := NewSignupService(repo)
	ctx := context.Background()

	created, err := svc.Submit(ctx, domain.Signup{
		Role:       domain.RoleVolunteer,
		Name:       "Sam",
		Email:      "sam@example.com",
		MarketDate: day("2026-05-02"),
	})
	require.NoError(t, err)

	// Both reviewers see the signup as pending before either writes.
	var readers sync.WaitGroup
	readers.Add(2)
	repo.read = func() {
		readers.Done()
		readers.Wait()
	}

	var wg sync.WaitGroup
	var approveErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, approveErr = svc.Approve(ctx, created.ID)
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = svc.Reject(ctx, created.ID, "double booked")
	}()
	wg.Wait()
	repo.read = nil

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	switch {
	case approveErr == nil:
		assert.ErrorIs(t, rejectErr, ErrSignupNotPending)
		assert.Equal(t, domain.SignupApproved, stored.Status)
	case rejectErr == nil:
		assert.ErrorIs(t, approveErr, ErrSignupNotPending)
		assert.Equal(t, domain.SignupRejected, stored.Status)
	default:
		t.Fatalf("both reviews failed: approve=%v reject=%v", approveErr, rejectErr)
	}
}
