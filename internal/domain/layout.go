package domain

type POIType string

const (
	POIRestroom          POIType = "Restroom"
	POIPublicParkingArea POIType = "PublicParkingArea"
	POIVendorParkingArea POIType = "VendorParkingArea"
	POISeatingArea       POIType = "SeatingArea"
	POIInformation       POIType = "Information"
	POISpecialEvent      POIType = "Special Event"
	POIMarketTokens      POIType = "Market Tokens"
)

type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type StallLayout struct {
	ID          uint        `json:"id"`
	StallID     string      `json:"stallId"`
	Coordinates Coordinates `json:"coordinates"`
}

type POI struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	POIType     POIType     `json:"poiType"`
	Description string      `json:"description"`
	Coordinates Coordinates `json:"coordinates"`
}

// StaticData is the stall and POI reference data shared by every market day.
type StaticData struct {
	StallLayouts []StallLayout
	POIs         []POI
}
