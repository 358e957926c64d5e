package domain

import (
	"errors"
	"time"
)

var ErrSignupNotPending = errors.New("signup is not pending")

type SignupRole string

const (
	RoleMusician  SignupRole = "musician"
	RoleVolunteer SignupRole = "volunteer"
	RoleNonprofit SignupRole = "nonprofit"
)

type SignupStatus string

const (
	SignupPending  SignupStatus = "Pending"
	SignupApproved SignupStatus = "Approved"
	SignupRejected SignupStatus = "Rejected"
)

type Signup struct {
	ID           uint         `json:"id"`
	Role         SignupRole   `json:"role"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Organization string       `json:"organization,omitempty"`
	MarketDate   time.Time    `json:"marketDate"`
	Notes        string       `json:"notes,omitempty"`
	Status       SignupStatus `json:"status"`
	RejectReason string       `json:"rejectReason,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (s *Signup) Approve(at time.Time) error {
	if s.Status != SignupPending {
		return ErrSignupNotPending
	}
	s.Status = SignupApproved
	s.ReviewedAt = &at
	return nil
}

func (s *Signup) Reject(at time.Time, reason string) error {
	if s.Status != SignupPending {
		return ErrSignupNotPending
	}
	s.Status = SignupRejected
	s.RejectReason = reason
	s.ReviewedAt = &at
	return nil
}
