// Package gemini implements planner.Planner against the Gemini
// generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
)

// Planner asks a Gemini model for a structured trip plan. Model output is
// untrusted: responses that do not decode into the expected shape fall back
// to a generic plan rather than failing the request.
type Planner struct {
	cfg    config.GeminiConfig
	client *http.Client

	// baseURL is overridable for tests.
	baseURL string
}

func NewPlanner(cfg config.GeminiConfig) *Planner {
	return &Planner{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL: "https://generativelanguage.googleapis.com",
	}
}

// SetBaseURLForTest points the planner at a local stand-in server.
func (p *Planner) SetBaseURLForTest(u string) { p.baseURL = u }

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// planJSON is the shape the prompt asks the model to produce.
type planJSON struct {
	Budget struct {
		EstimatedTotal float64 `json:"estimatedTotal"`
		Currency       string  `json:"currency"`
		Breakdown      struct {
			Flights       float64 `json:"flights"`
			Accommodation float64 `json:"accommodation"`
			Food          float64 `json:"food"`
			Activities    float64 `json:"activities"`
			Miscellaneous float64 `json:"miscellaneous"`
		} `json:"breakdown"`
	} `json:"budget"`
	Flights []struct {
		FlightName string  `json:"flightName"`
		Price      float64 `json:"price"`
		Currency   string  `json:"currency"`
		Duration   string  `json:"duration"`
		From       string  `json:"from"`
		To         string  `json:"to"`
	} `json:"flights"`
	Locations []struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		RecommendedTime string `json:"recommendedTime"`
	} `json:"locations"`
	SeasonInfo string `json:"seasonInfo"`
	Itinerary  []struct {
		Day        int      `json:"day"`
		Activities []string `json:"activities"`
	} `json:"itinerary"`
}

func (p *Planner) GeneratePlan(ctx context.Context, startPlace, destination string) (domain.TripPlan, error) {
	prompt := buildPrompt(startPlace, destination)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return domain.TripPlan{}, err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.cfg.Model, p.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.TripPlan{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return domain.TripPlan{}, fmt.Errorf("gemini request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return domain.TripPlan{}, fmt.Errorf("gemini request: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return fallbackPlan(startPlace, destination), nil
	}

	text := stripCodeFences(gr.Candidates[0].Content.Parts[0].Text)
	var pj planJSON
	if err := json.Unmarshal([]byte(text), &pj); err != nil {
		// Model output that is not valid JSON degrades to a generic plan.
		return fallbackPlan(startPlace, destination), nil
	}
	return toPlan(startPlace, destination, pj), nil
}

func buildPrompt(startPlace, destination string) string {
	return fmt.Sprintf(`You are a travel planning assistant. Plan a trip from %s to %s.
Respond with a single JSON object only, no prose, with this exact shape:
{
  "budget": {"estimatedTotal": number, "currency": string, "breakdown": {"flights": number, "accommodation": number, "food": number, "activities": number, "miscellaneous": number}},
  "flights": [{"flightName": string, "price": number, "currency": string, "duration": string, "from": string, "to": string}],
  "locations": [{"name": string, "description": string, "recommendedTime": string}],
  "seasonInfo": string,
  "itinerary": [{"day": number, "activities": [string]}]
}`, startPlace, destination)
}

// stripCodeFences unwraps model output of the form "```json\n...\n```".
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag on the opening fence.
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func toPlan(startPlace, destination string, pj planJSON) domain.TripPlan {
	plan := domain.TripPlan{
		StartPlace:  startPlace,
		Destination: destination,
		Budget: domain.Budget{
			EstimatedTotal: pj.Budget.EstimatedTotal,
			Currency:       pj.Budget.Currency,
			Breakdown: domain.BudgetBreakdown{
				Flights:       pj.Budget.Breakdown.Flights,
				Accommodation: pj.Budget.Breakdown.Accommodation,
				Food:          pj.Budget.Breakdown.Food,
				Activities:    pj.Budget.Breakdown.Activities,
				Miscellaneous: pj.Budget.Breakdown.Miscellaneous,
			},
		},
		SeasonInfo: pj.SeasonInfo,
	}
	for _, f := range pj.Flights {
		plan.Flights = append(plan.Flights, domain.FlightOption{
			FlightName: f.FlightName,
			Price:      f.Price,
			Currency:   f.Currency,
			Duration:   f.Duration,
			From:       f.From,
			To:         f.To,
		})
	}
	for _, l := range pj.Locations {
		plan.Locations = append(plan.Locations, domain.Location{
			Name:            l.Name,
			Description:     l.Description,
			RecommendedTime: l.RecommendedTime,
		})
	}
	for _, d := range pj.Itinerary {
		plan.Itinerary = append(plan.Itinerary, domain.ItineraryDay{Day: d.Day, Activities: d.Activities})
	}
	return plan
}

// fallbackPlan is returned when the model answers with something that is not
// a plan. It keeps the endpoint useful instead of surfacing a parse error.
func fallbackPlan(startPlace, destination string) domain.TripPlan {
	return domain.TripPlan{
		StartPlace:  startPlace,
		Destination: destination,
		Budget: domain.Budget{
			EstimatedTotal: 50000,
			Currency:       "INR",
			Breakdown: domain.BudgetBreakdown{
				Flights:       20000,
				Accommodation: 15000,
				Food:          8000,
				Activities:    5000,
				Miscellaneous: 2000,
			},
		},
		SeasonInfo: "Check local conditions before travelling.",
		Itinerary: []domain.ItineraryDay{
			{Day: 1, Activities: []string{"Arrive and settle in", "Explore the neighborhood"}},
			{Day: 2, Activities: []string{"Visit the main sights", "Try local food"}},
		},
	}
}
