package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository/dao"
)

var (
	ErrSignupNotFound  = dao.ErrSignupNotFound
	ErrDuplicateSignup = dao.ErrDuplicateSignup
)

type SignupFilter struct {
	Status domain.SignupStatus
	Role   domain.SignupRole
	From   *time.Time
	To     *time.Time
}

type SignupDAO interface {
	Insert(ctx context.Context, signup dao.Signup) (dao.Signup, error)
	FindByID(ctx context.Context, id uint) (dao.Signup, error)
	Find(ctx context.Context, filter dao.SignupFilter) ([]dao.Signup, error)
	SaveReview(ctx context.Context, signup dao.Signup) (dao.Signup, error)
}

type SignupRepository struct {
	dao SignupDAO
}

func NewSignupRepository(dao SignupDAO) *SignupRepository {
	return &SignupRepository{
		dao: dao,
	}
}

func (r *SignupRepository) domainToDao(s domain.Signup) dao.Signup {
	return dao.Signup{
		ID:           s.ID,
		Role:         string(s.Role),
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Organization: s.Organization,
		MarketDate:   domain.StartOfDay(s.MarketDate),
		Notes:        s.Notes,
		Status:       string(s.Status),
		RejectReason: s.RejectReason,
		ReviewedAt:   s.ReviewedAt,
		CreatedAt:    s.CreatedAt,
	}
}

func (r *SignupRepository) daoToDomain(s dao.Signup) domain.Signup {
	return domain.Signup{
		ID:           s.ID,
		Role:         domain.SignupRole(s.Role),
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Organization: s.Organization,
		MarketDate:   s.MarketDate.UTC(),
		Notes:        s.Notes,
		Status:       domain.SignupStatus(s.Status),
		RejectReason: s.RejectReason,
		ReviewedAt:   s.ReviewedAt,
		CreatedAt:    s.CreatedAt,
	}
}

func (r *SignupRepository) Create(ctx context.Context, signup domain.Signup) (domain.Signup, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(signup))
	if err != nil {
		return domain.Signup{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SignupRepository) FindByID(ctx context.Context, id uint) (domain.Signup, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Signup{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SignupRepository) Find(ctx context.Context, filter SignupFilter) ([]domain.Signup, error) {
	found, err := r.dao.Find(ctx, dao.SignupFilter{
		Status: string(filter.Status),
		Role:   string(filter.Role),
		From:   filter.From,
		To:     filter.To,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	signups := make([]domain.Signup, len(found))
	for i, s := range found {
		signups[i] = r.daoToDomain(s)
	}

	return signups, nil
}

// SaveReview stores an approval or rejection. It fails with
// domain.ErrSignupNotPending when the stored signup was already reviewed.
func (r *SignupRepository) SaveReview(ctx context.Context, signup domain.Signup) (domain.Signup, error) {
	updated, err := r.dao.SaveReview(ctx, r.domainToDao(signup))
	if err != nil {
		if errors.Is(err, dao.ErrSignupReviewed) {
			return domain.Signup{}, fmt.Errorf("r.dao.SaveReview -> %w", domain.ErrSignupNotPending)
		}
		return domain.Signup{}, fmt.Errorf("r.dao.SaveReview -> %w", err)
	}

	return r.daoToDomain(updated), nil
}
