package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const signupUniqueIndex = "idx_signups_role_email_date"

var (
	ErrSignupNotFound  = errors.New("signup not found")
	ErrDuplicateSignup = errors.New("signup already exists for this role and date")
	ErrSignupReviewed  = errors.New("signup already reviewed")
)

type Signup struct {
	ID           uint   `gorm:"primaryKey"`
	Role         string `gorm:"not null;uniqueIndex:idx_signups_role_email_date"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex:idx_signups_role_email_date"`
	Phone        string `gorm:"not null"`
	Organization string
	MarketDate   time.Time `gorm:"not null;index;uniqueIndex:idx_signups_role_email_date"`
	Notes        string
	Status       string `gorm:"not null;index"`
	RejectReason string
	ReviewedAt   *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type SignupFilter struct {
	Status string
	Role   string
	From   *time.Time
	To     *time.Time
}

type SignupDAO struct {
	db *gorm.DB
}

func NewSignupDAO(db *gorm.DB) *SignupDAO {
	return &SignupDAO{
		db: db,
	}
}

func (d *SignupDAO) Insert(ctx context.Context, signup Signup) (Signup, error) {
	result := d.db.WithContext(ctx).Create(&signup)
	if result.Error != nil {
		if isUniqueViolation(result.Error, signupUniqueIndex) {
			return Signup{}, ErrDuplicateSignup
		}

		return Signup{}, result.Error
	}

	return signup, nil
}

func (d *SignupDAO) FindByID(ctx context.Context, id uint) (Signup, error) {
	var signup Signup

	result := d.db.WithContext(ctx).First(&signup, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Signup{}, ErrSignupNotFound
		}

		return Signup{}, result.Error
	}

	return signup, nil
}

func (d *SignupDAO) Find(ctx context.Context, filter SignupFilter) ([]Signup, error) {
	var signups []Signup

	query := d.db.WithContext(ctx).Model(&Signup{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.From != nil {
		query = query.Where("market_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("market_date < ?", *filter.To)
	}

	result := query.Order("market_date ASC, id ASC").Find(&signups)
	if result.Error != nil {
		return nil, result.Error
	}

	return signups, nil
}

const signupPending = "Pending"

// SaveReview writes the review outcome only while the stored row is still
// pending, so a signup is decided once even when reviewers race.
func (d *SignupDAO) SaveReview(ctx context.Context, signup Signup) (Signup, error) {
	result := d.db.WithContext(ctx).
		Model(&Signup{}).
		Where("id = ? AND status = ?", signup.ID, signupPending).
		Updates(map[string]interface{}{
			"status":        signup.Status,
			"reject_reason": signup.RejectReason,
			"reviewed_at":   signup.ReviewedAt,
		})
	if result.Error != nil {
		return Signup{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, signup.ID); err != nil {
			return Signup{}, err
		}

		return Signup{}, ErrSignupReviewed
	}

	return d.FindByID(ctx, signup.ID)
}
