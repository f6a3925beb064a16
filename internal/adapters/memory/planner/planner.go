package planner

import (
	"context"
	"fmt"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// Planner is an offline planner.Planner used for local development and
// tests. It returns a deterministic plan for any route.
type Planner struct{}

func NewPlanner() Planner { return Planner{} }

func (Planner) GeneratePlan(ctx context.Context, startPlace, destination string) (domain.TripPlan, error) {
	_ = ctx
	return domain.TripPlan{
		StartPlace:  startPlace,
		Destination: destination,
		Budget: domain.Budget{
			EstimatedTotal: 50000,
			Currency:       "INR",
			Breakdown: domain.BudgetBreakdown{
				Flights:       18000,
				Accommodation: 15000,
				Food:          8000,
				Activities:    6000,
				Miscellaneous: 3000,
			},
		},
		Flights: []domain.FlightOption{
			{
				FlightName: "IndiGo 6E-204",
				Price:      5500,
				Currency:   "INR",
				Duration:   "2h 30m",
				From:       startPlace,
				To:         destination,
			},
		},
		Locations: []domain.Location{
			{
				Name:            fmt.Sprintf("%s old town", destination),
				Description:     "A walkable historic quarter with markets and street food.",
				RecommendedTime: "evening",
			},
		},
		SeasonInfo: "October to March offers the mildest weather.",
		Itinerary: []domain.ItineraryDay{
			{Day: 1, Activities: []string{"Arrive and check in", "Sunset walk"}},
			{Day: 2, Activities: []string{"City sights", "Local cuisine dinner"}},
		},
	}, nil
}
