package planner

import (
	"context"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// Planner generates a trip plan for a route. Implementations call an
// external model; the plan is ephemeral until the user saves it as a trip.
type Planner interface {
	GeneratePlan(ctx context.Context, startPlace, destination string) (domain.TripPlan, error)
}
