package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
)

func newTestPlanner(t *testing.T, handler http.Handler) *Planner {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewPlanner(config.GeminiConfig{
		APIKey:      "key",
		Model:       "gemini-1.5-flash",
		HTTPTimeout: 5 * time.Second,
	})
	p.SetBaseURLForTest(srv.URL)
	return p
}

func textResponse(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return b
}

const planText = `{
	"budget": {"estimatedTotal": 42000, "currency": "INR", "breakdown": {"flights": 16000, "accommodation": 14000, "food": 6000, "activities": 4000, "miscellaneous": 2000}},
	"flights": [{"flightName": "AI-101", "price": 8000, "currency": "INR", "duration": "2h", "from": "Delhi", "to": "Goa"}],
	"locations": [{"name": "Baga Beach", "description": "Busy beach", "recommendedTime": "morning"}],
	"seasonInfo": "November to February",
	"itinerary": [{"day": 1, "activities": ["Arrive", "Beach"]}]
}`

func TestPlanner_GeneratePlan(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "key" {
			t.Errorf("missing api key")
		}
		_, _ = w.Write(textResponse(planText))
	}))

	plan, err := p.GeneratePlan(context.Background(), "Delhi", "Goa")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if plan.Budget.EstimatedTotal != 42000 || plan.Budget.Currency != "INR" {
		t.Fatalf("budget=%+v", plan.Budget)
	}
	if len(plan.Flights) != 1 || plan.Flights[0].FlightName != "AI-101" {
		t.Fatalf("flights=%+v", plan.Flights)
	}
	if len(plan.Itinerary) != 1 || plan.Itinerary[0].Day != 1 {
		t.Fatalf("itinerary=%+v", plan.Itinerary)
	}
	if plan.StartPlace != "Delhi" || plan.Destination != "Goa" {
		t.Fatalf("route=%s->%s", plan.StartPlace, plan.Destination)
	}
}

func TestPlanner_GeneratePlan_UnwrapsMarkdownFences(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(textResponse("```json\n" + planText + "\n```"))
	}))

	plan, err := p.GeneratePlan(context.Background(), "Delhi", "Goa")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if plan.Budget.EstimatedTotal != 42000 {
		t.Fatalf("fences not stripped: %+v", plan.Budget)
	}
}

func TestPlanner_GeneratePlan_FallsBackOnUnparseableOutput(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(textResponse("Sorry, I cannot plan that trip."))
	}))

	plan, err := p.GeneratePlan(context.Background(), "Delhi", "Goa")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	// The generic plan still carries the requested route.
	if plan.StartPlace != "Delhi" || plan.Destination != "Goa" {
		t.Fatalf("route=%s->%s", plan.StartPlace, plan.Destination)
	}
	if plan.Budget.EstimatedTotal == 0 || len(plan.Itinerary) == 0 {
		t.Fatalf("fallback plan is empty: %+v", plan)
	}
}

func TestPlanner_GeneratePlan_ServerError(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))

	if _, err := p.GeneratePlan(context.Background(), "Delhi", "Goa"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
