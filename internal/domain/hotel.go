package domain

// CanonicalHotel is the normalized view of one upstream hotel-details payload.
// It is read-only once produced.
type CanonicalHotel struct {
	HotelID  string                  `json:"hotelId"`
	Property Property                `json:"property"`
	Rooms    map[string]RoomOffering `json:"rooms"`
}

type Property struct {
	Name          string   `json:"name"`
	ReviewScore   *float64 `json:"reviewScore,omitempty"`
	ReviewCount   int      `json:"reviewCount"`
	PropertyClass *int     `json:"propertyClass,omitempty"`
	Location      Location `json:"location"`
	PhotoURLs     []string `json:"photoUrls"`
	Checkin       Window   `json:"checkin"`
	Checkout      Window   `json:"checkout"`
}

type Location struct {
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
	Coords  *Coords `json:"coords,omitempty"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Window is a check-in or check-out time range as published by the property ("14:00").
type Window struct {
	From  string `json:"from,omitempty"`
	Until string `json:"until,omitempty"`
}

type RoomOffering struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     Price    `json:"price"`
	Capacity  Capacity `json:"capacity"`
	Amenities []string `json:"amenities"`
	Images    []string `json:"images"`
	MealPlan  string   `json:"mealPlan,omitempty"`
}

// Price.Amount is per night when PerNight is set.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	PerNight bool    `json:"perNight"`
}

type Capacity struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// StayQuery parameterizes a hotel-details lookup.
type StayQuery struct {
	CheckIn  string // YYYY-MM-DD
	CheckOut string // YYYY-MM-DD
	Adults   int
	Currency string
	Locale   string
}
