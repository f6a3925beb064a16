package domain

import "time"

type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusCompleted TripStatus = "completed"
)

// ValidTripStatus reports whether s is one of the two allowed statuses.
// There is deliberately no richer state machine than this.
func ValidTripStatus(s TripStatus) bool {
	return s == TripStatusPlanned || s == TripStatusCompleted
}

// BudgetBreakdown itemizes an estimated trip budget.
type BudgetBreakdown struct {
	Flights       float64
	Accommodation float64
	Food          float64
	Activities    float64
	Miscellaneous float64
}

type Budget struct {
	EstimatedTotal float64
	Currency       string
	Breakdown      BudgetBreakdown
}

type FlightOption struct {
	FlightName string
	Price      float64
	Currency   string
	Duration   string
	From       string
	To         string
}

type Location struct {
	Name            string
	Description     string
	RecommendedTime string
}

type ItineraryDay struct {
	Day        int
	Activities []string
}

// TripPlan is an AI-generated plan. Plans are ephemeral: nothing is
// persisted until the caller explicitly saves one as a Trip.
type TripPlan struct {
	StartPlace  string
	Destination string

	Budget     Budget
	Flights    []FlightOption
	Locations  []Location
	SeasonInfo string
	Itinerary  []ItineraryDay
}

// Trip is a saved plan owned by exactly one user.
type Trip struct {
	ID     TripID
	UserID UserID

	StartPlace  string
	Destination string

	Budget     *Budget
	Flights    []FlightOption
	Locations  []Location
	SeasonInfo string
	Itinerary  []ItineraryDay

	Status TripStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
