package domain

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

type Vendor struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	VendorType   string    `json:"vendorType"`
	Description  string    `json:"description"`
	Website      string    `json:"website"`
	Tags         []string  `json:"tags"`
	DefaultStall string    `json:"defaultStall"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// AttendanceRecord is one stall occupied by one vendor on one market day.
// Vendor is nil when the referenced vendor no longer exists.
type AttendanceRecord struct {
	ID         uint      `json:"id"`
	VendorID   uint      `json:"vendorId"`
	Vendor     *Vendor   `json:"vendor,omitempty"`
	MarketDate time.Time `json:"marketDate"`
	StallID    string    `json:"stallId"`
}

type VendorForDate struct {
	Vendor
	StallList []string `json:"stallList"`
}

// Manually assigned stall ids must contain at least one digit.
var stallIDPattern = regexp2.MustCompile(`^(?=.*\d)[A-Z0-9-]{1,12}$`, regexp2.None)

func NormalizeStallID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidStallID reports whether the normalized form of s is a well-formed stall id.
func ValidStallID(s string) bool {
	ok, err := stallIDPattern.MatchString(NormalizeStallID(s))
	return err == nil && ok
}
