package request

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

var errMissingOrganization = errors.New("organization is required for non-profit signups")

var phoneExp = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

type SubmitSignupRequest struct {
	Role         string `json:"role"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Date         string `json:"date" format:"YYYY-MM-DD"`
	Notes        string `json:"notes"`
}

func (req *SubmitSignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In(
			string(domain.RoleMusician), string(domain.RoleVolunteer), string(domain.RoleNonprofit))),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Phone, validation.Match(phoneExp)),
		validation.Field(&req.Organization, validation.Length(0, 100)),
		validation.Field(&req.Date, validation.Required, validDay),
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
	if err != nil {
		return err
	}

	if req.Role == string(domain.RoleNonprofit) && strings.TrimSpace(req.Organization) == "" {
		return errMissingOrganization
	}

	return nil
}

type ListSignupsQuery struct {
	Status string `form:"status"`
	Role   string `form:"role"`
}

func (req *ListSignupsQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.In(
			string(domain.SignupPending), string(domain.SignupApproved), string(domain.SignupRejected))),
		validation.Field(&req.Role, validation.In(
			string(domain.RoleMusician), string(domain.RoleVolunteer), string(domain.RoleNonprofit))),
	)
}

type RejectSignupRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectSignupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(3, 500)),
	)
}
