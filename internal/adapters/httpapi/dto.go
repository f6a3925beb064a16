package httpapi

import (
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// Wire shapes. Field names follow the API's camelCase convention.

type budgetBreakdownJSON struct {
	Flights       float64 `json:"flights"`
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Miscellaneous float64 `json:"miscellaneous"`
}

type budgetJSON struct {
	EstimatedTotal float64             `json:"estimatedTotal"`
	Currency       string              `json:"currency"`
	Breakdown      budgetBreakdownJSON `json:"breakdown"`
}

type flightJSON struct {
	FlightName string  `json:"flightName"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Duration   string  `json:"duration"`
	From       string  `json:"from"`
	To         string  `json:"to"`
}

type locationJSON struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	RecommendedTime string `json:"recommendedTime"`
}

type itineraryDayJSON struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

type planJSON struct {
	StartPlace  string             `json:"startPlace"`
	Destination string             `json:"destination"`
	Budget      budgetJSON         `json:"budget"`
	Flights     []flightJSON       `json:"flights"`
	Locations   []locationJSON     `json:"locations"`
	SeasonInfo  string             `json:"seasonInfo"`
	Itinerary   []itineraryDayJSON `json:"itinerary"`
}

type tripJSON struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	StartPlace  string             `json:"startPlace"`
	Destination string             `json:"destination"`
	Budget      *budgetJSON        `json:"budget,omitempty"`
	Flights     []flightJSON       `json:"flights,omitempty"`
	Locations   []locationJSON     `json:"locations,omitempty"`
	SeasonInfo  string             `json:"seasonInfo,omitempty"`
	Itinerary   []itineraryDayJSON `json:"itinerary,omitempty"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type photoJSON struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TripID    string    `json:"tripId"`
	ImageURL  string    `json:"imageUrl"`
	Caption   *string   `json:"caption,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type profileJSON struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type sessionUserJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionJSON struct {
	User         sessionUserJSON `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

func toBudgetJSON(b domain.Budget) budgetJSON {
	return budgetJSON{
		EstimatedTotal: b.EstimatedTotal,
		Currency:       b.Currency,
		Breakdown: budgetBreakdownJSON{
			Flights:       b.Breakdown.Flights,
			Accommodation: b.Breakdown.Accommodation,
			Food:          b.Breakdown.Food,
			Activities:    b.Breakdown.Activities,
			Miscellaneous: b.Breakdown.Miscellaneous,
		},
	}
}

func fromBudgetJSON(b budgetJSON) domain.Budget {
	return domain.Budget{
		EstimatedTotal: b.EstimatedTotal,
		Currency:       b.Currency,
		Breakdown: domain.BudgetBreakdown{
			Flights:       b.Breakdown.Flights,
			Accommodation: b.Breakdown.Accommodation,
			Food:          b.Breakdown.Food,
			Activities:    b.Breakdown.Activities,
			Miscellaneous: b.Breakdown.Miscellaneous,
		},
	}
}

func toFlightsJSON(fs []domain.FlightOption) []flightJSON {
	out := make([]flightJSON, 0, len(fs))
	for _, f := range fs {
		out = append(out, flightJSON{
			FlightName: f.FlightName,
			Price:      f.Price,
			Currency:   f.Currency,
			Duration:   f.Duration,
			From:       f.From,
			To:         f.To,
		})
	}
	return out
}

func fromFlightsJSON(fs []flightJSON) []domain.FlightOption {
	out := make([]domain.FlightOption, 0, len(fs))
	for _, f := range fs {
		out = append(out, domain.FlightOption{
			FlightName: f.FlightName,
			Price:      f.Price,
			Currency:   f.Currency,
			Duration:   f.Duration,
			From:       f.From,
			To:         f.To,
		})
	}
	return out
}

func toLocationsJSON(ls []domain.Location) []locationJSON {
	out := make([]locationJSON, 0, len(ls))
	for _, l := range ls {
		out = append(out, locationJSON{Name: l.Name, Description: l.Description, RecommendedTime: l.RecommendedTime})
	}
	return out
}

func fromLocationsJSON(ls []locationJSON) []domain.Location {
	out := make([]domain.Location, 0, len(ls))
	for _, l := range ls {
		out = append(out, domain.Location{Name: l.Name, Description: l.Description, RecommendedTime: l.RecommendedTime})
	}
	return out
}

func toItineraryJSON(ds []domain.ItineraryDay) []itineraryDayJSON {
	out := make([]itineraryDayJSON, 0, len(ds))
	for _, d := range ds {
		out = append(out, itineraryDayJSON{Day: d.Day, Activities: d.Activities})
	}
	return out
}

func fromItineraryJSON(ds []itineraryDayJSON) []domain.ItineraryDay {
	out := make([]domain.ItineraryDay, 0, len(ds))
	for _, d := range ds {
		out = append(out, domain.ItineraryDay{Day: d.Day, Activities: d.Activities})
	}
	return out
}

func toPlanJSON(p domain.TripPlan) planJSON {
	return planJSON{
		StartPlace:  p.StartPlace,
		Destination: p.Destination,
		Budget:      toBudgetJSON(p.Budget),
		Flights:     toFlightsJSON(p.Flights),
		Locations:   toLocationsJSON(p.Locations),
		SeasonInfo:  p.SeasonInfo,
		Itinerary:   toItineraryJSON(p.Itinerary),
	}
}

func toTripJSON(t domain.Trip) tripJSON {
	out := tripJSON{
		ID:          string(t.ID),
		UserID:      string(t.UserID),
		StartPlace:  t.StartPlace,
		Destination: t.Destination,
		SeasonInfo:  t.SeasonInfo,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Budget != nil {
		b := toBudgetJSON(*t.Budget)
		out.Budget = &b
	}
	if len(t.Flights) > 0 {
		out.Flights = toFlightsJSON(t.Flights)
	}
	if len(t.Locations) > 0 {
		out.Locations = toLocationsJSON(t.Locations)
	}
	if len(t.Itinerary) > 0 {
		out.Itinerary = toItineraryJSON(t.Itinerary)
	}
	return out
}

func toTripsJSON(ts []domain.Trip) []tripJSON {
	out := make([]tripJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTripJSON(t))
	}
	return out
}

func toPhotoJSON(p domain.Photo) photoJSON {
	return photoJSON{
		ID:        string(p.ID),
		UserID:    string(p.UserID),
		TripID:    string(p.TripID),
		ImageURL:  p.ImageURL,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}

func toPhotosJSON(ps []domain.Photo) []photoJSON {
	out := make([]photoJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPhotoJSON(p))
	}
	return out
}
