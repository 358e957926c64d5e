package request

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

var errInvalidStallID = errors.New("must be letters, digits or dashes, at most 12 long, with at least one digit")

// validDay checks a YYYY-MM-DD string. Empty values pass; pair with Required.
var validDay = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := domain.ParseDay(s)
	if err != nil {
		return errors.New("must be a date formatted as YYYY-MM-DD")
	}
	return nil
})

var validStallID = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !domain.ValidStallID(s) {
		return errInvalidStallID
	}
	return nil
})

var validTags = validation.By(func(value interface{}) error {
	tags, _ := value.([]string)
	for _, tag := range tags {
		if n := len(strings.TrimSpace(tag)); n == 0 || n > 30 {
			return errors.New("each tag must be between 1 and 30 characters")
		}
	}
	return nil
})

type CreateVendorRequest struct {
	Name         string   `json:"name"`
	VendorType   string   `json:"vendorType"`
	Description  string   `json:"description"`
	Website      string   `json:"website"`
	Tags         []string `json:"tags"`
	DefaultStall string   `json:"defaultStall"`
}

func (req *CreateVendorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.VendorType, validation.Length(0, 50)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Website, is.URL),
		validation.Field(&req.Tags, validation.Length(0, 20), validTags),
		validation.Field(&req.DefaultStall, validStallID),
	)
}

type AssignStallRequest struct {
	VendorID uint   `json:"vendorId"`
	Date     string `json:"date" format:"YYYY-MM-DD"`
	StallID  string `json:"stallId"`
}

func (req *AssignStallRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.VendorID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Date, validation.Required, validDay),
		validation.Field(&req.StallID, validStallID),
	)
}

type DateQuery struct {
	Date string `form:"date"`
}

func (req *DateQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validDay),
	)
}

type CalendarQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (req *CalendarQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.From, validation.Required, validDay),
		validation.Field(&req.To, validation.Required, validDay),
	)
}
