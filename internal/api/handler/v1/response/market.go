package response

import "github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"

type AnchorDate struct {
	// Date is empty when no market day is suitable.
	Date string `json:"date"`
}

type Calendar struct {
	From string               `json:"from"`
	To   string               `json:"to"`
	Days []domain.DayCoverage `json:"days"`
}
