package trips

import "github.com/wayfarelabs/travel-planner-api/internal/domain"

// CreateTripInput saves a plan as a trip. Only StartPlace and Destination are
// required; the plan fields are whatever the caller kept from generation.
type CreateTripInput struct {
	StartPlace  string
	Destination string

	Budget     *domain.Budget
	Flights    []domain.FlightOption
	Locations  []domain.Location
	SeasonInfo string
	Itinerary  []domain.ItineraryDay
}

// ListOptions bounds List results. Zero Limit means all trips.
type ListOptions struct {
	Limit int
}
