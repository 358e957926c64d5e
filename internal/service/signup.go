package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
)

var (
	ErrSignupNotFound   = repository.ErrSignupNotFound
	ErrDuplicateSignup  = repository.ErrDuplicateSignup
	ErrSignupNotPending = domain.ErrSignupNotPending
)

type SignupRepository interface {
	Create(ctx context.Context, signup domain.Signup) (domain.Signup, error)
	FindByID(ctx context.Context, id uint) (domain.Signup, error)
	Find(ctx context.Context, filter repository.SignupFilter) ([]domain.Signup, error)
	SaveReview(ctx context.Context, signup domain.Signup) (domain.Signup, error)
}

// SignupService runs the musician, volunteer and non-profit signup queue.
// Every signup starts pending and is approved or rejected exactly once.
type SignupService struct {
	repo SignupRepository
	now  func() time.Time
}

func NewSignupService(repo SignupRepository) *SignupService {
	return &SignupService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *SignupService) Submit(ctx context.Context, signup domain.Signup) (domain.Signup, error) {
	signup.ID = 0
	signup.Status = domain.SignupPending
	signup.RejectReason = ""
	signup.ReviewedAt = nil
	signup.MarketDate = domain.StartOfDay(signup.MarketDate)

	created, err := s.repo.Create(ctx, signup)
	if err != nil {
		return domain.Signup{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("signup submitted",
		zap.Uint("signup_id", created.ID),
		zap.String("role", string(created.Role)),
		zap.String("date", domain.FormatDay(created.MarketDate)))

	return created, nil
}

func (s *SignupService) List(ctx context.Context, filter repository.SignupFilter) ([]domain.Signup, error) {
	signups, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return signups, nil
}

func (s *SignupService) Approve(ctx context.Context, id uint) (domain.Signup, error) {
	return s.review(ctx, id, func(signup *domain.Signup) error {
		return signup.Approve(s.now().UTC())
	})
}

func (s *SignupService) Reject(ctx context.Context, id uint, reason string) (domain.Signup, error) {
	return s.review(ctx, id, func(signup *domain.Signup) error {
		return signup.Reject(s.now().UTC(), reason)
	})
}

func (s *SignupService) review(ctx context.Context, id uint, decide func(*domain.Signup) error) (domain.Signup, error) {
	signup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Signup{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := decide(&signup); err != nil {
		return domain.Signup{}, err
	}

	updated, err := s.repo.SaveReview(ctx, signup)
	if err != nil {
		return domain.Signup{}, fmt.Errorf("s.repo.SaveReview -> %w", err)
	}

	zap.L().Info("signup reviewed",
		zap.Uint("signup_id", updated.ID),
		zap.String("status", string(updated.Status)))

	return updated, nil
}
