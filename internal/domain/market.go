package domain

import "time"

type MarketDate struct {
	ID    uint      `json:"id"`
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
}

type DateOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type MapData struct {
	VendorsOnDate   []VendorForDate `json:"vendorsOnDate"`
	AllStallLayouts []StallLayout   `json:"allStallLayouts"`
	AllPois         []POI           `json:"allPois"`
	CurrentDate     string          `json:"currentDate"`
}

type DayCoverage struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	VendorCount    int    `json:"vendorCount"`
	StallsOccupied int    `json:"stallsOccupied"`
	StallsTotal    int    `json:"stallsTotal"`
	Musicians      int    `json:"musicians"`
	Volunteers     int    `json:"volunteers"`
	Nonprofits     int    `json:"nonprofits"`
}
