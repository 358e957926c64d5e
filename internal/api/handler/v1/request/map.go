package request

import validation "github.com/go-ozzo/ozzo-validation"

type SearchRequest struct {
	Term string `json:"term"`
}

func (req *SearchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Term, validation.Length(0, 100)),
	)
}

type HighlightRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (req *HighlightRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Type, validation.Required, validation.In("vendorType", "poiType", "tag", "vendor")),
		validation.Field(&req.ID, validation.Required, validation.Length(1, 100)),
	)
}
