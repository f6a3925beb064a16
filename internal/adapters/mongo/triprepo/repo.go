package triprepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodb "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
)

// Repo is a MongoDB implementation of triprepo.Repository. Documents carry
// the full plan payload; field names follow the collection's existing
// camelCase convention.
type Repo struct {
	col *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{col: db.Collection(mongodb.TripsCollection)}
}

type budgetDoc struct {
	EstimatedTotal float64 `bson:"estimatedTotal"`
	Currency       string  `bson:"currency"`
	Flights        float64 `bson:"flights"`
	Accommodation  float64 `bson:"accommodation"`
	Food           float64 `bson:"food"`
	Activities     float64 `bson:"activities"`
	Miscellaneous  float64 `bson:"miscellaneous"`
}

type flightDoc struct {
	FlightName string  `bson:"flightName"`
	Price      float64 `bson:"price"`
	Currency   string  `bson:"currency"`
	Duration   string  `bson:"duration"`
	From       string  `bson:"from"`
	To         string  `bson:"to"`
}

type locationDoc struct {
	Name            string `bson:"name"`
	Description     string `bson:"description"`
	RecommendedTime string `bson:"recommendedTime"`
}

type itineraryDayDoc struct {
	Day        int      `bson:"day"`
	Activities []string `bson:"activities"`
}

type tripDoc struct {
	ID          string            `bson:"_id"`
	UserID      string            `bson:"userId"`
	StartPlace  string            `bson:"startPlace"`
	Destination string            `bson:"destination"`
	Budget      *budgetDoc        `bson:"budget,omitempty"`
	Flights     []flightDoc       `bson:"flights,omitempty"`
	Locations   []locationDoc     `bson:"locations,omitempty"`
	SeasonInfo  string            `bson:"seasonInfo,omitempty"`
	Itinerary   []itineraryDayDoc `bson:"itinerary,omitempty"`
	Status      string            `bson:"status"`
	CreatedAt   time.Time         `bson:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt"`
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	if _, err := r.col.InsertOne(ctx, toDoc(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	var doc tripDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, err
	}
	return fromDoc(doc), nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID, opts triprepo.ListOptions) ([]triprepo.Trip, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"userId": string(userID)}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]triprepo.Trip, 0)
	for cur.Next(ctx) {
		var doc tripDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id domain.TripID, status domain.TripStatus, at time.Time) error {
	res, err := r.col.UpdateByID(ctx, string(id), bson.M{
		"$set": bson.M{"status": string(status), "updatedAt": at.UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func toDoc(t triprepo.Trip) tripDoc {
	doc := tripDoc{
		ID:          string(t.ID),
		UserID:      string(t.UserID),
		StartPlace:  t.StartPlace,
		Destination: t.Destination,
		SeasonInfo:  t.SeasonInfo,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.Budget != nil {
		doc.Budget = &budgetDoc{
			EstimatedTotal: t.Budget.EstimatedTotal,
			Currency:       t.Budget.Currency,
			Flights:        t.Budget.Breakdown.Flights,
			Accommodation:  t.Budget.Breakdown.Accommodation,
			Food:           t.Budget.Breakdown.Food,
			Activities:     t.Budget.Breakdown.Activities,
			Miscellaneous:  t.Budget.Breakdown.Miscellaneous,
		}
	}
	for _, f := range t.Flights {
		doc.Flights = append(doc.Flights, flightDoc{
			FlightName: f.FlightName,
			Price:      f.Price,
			Currency:   f.Currency,
			Duration:   f.Duration,
			From:       f.From,
			To:         f.To,
		})
	}
	for _, l := range t.Locations {
		doc.Locations = append(doc.Locations, locationDoc{
			Name:            l.Name,
			Description:     l.Description,
			RecommendedTime: l.RecommendedTime,
		})
	}
	for _, d := range t.Itinerary {
		doc.Itinerary = append(doc.Itinerary, itineraryDayDoc{Day: d.Day, Activities: d.Activities})
	}
	return doc
}

func fromDoc(doc tripDoc) triprepo.Trip {
	t := triprepo.Trip{
		ID:          domain.TripID(doc.ID),
		UserID:      domain.UserID(doc.UserID),
		StartPlace:  doc.StartPlace,
		Destination: doc.Destination,
		SeasonInfo:  doc.SeasonInfo,
		Status:      domain.TripStatus(doc.Status),
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
	if doc.Budget != nil {
		t.Budget = &domain.Budget{
			EstimatedTotal: doc.Budget.EstimatedTotal,
			Currency:       doc.Budget.Currency,
			Breakdown: domain.BudgetBreakdown{
				Flights:       doc.Budget.Flights,
				Accommodation: doc.Budget.Accommodation,
				Food:          doc.Budget.Food,
				Activities:    doc.Budget.Activities,
				Miscellaneous: doc.Budget.Miscellaneous,
			},
		}
	}
	for _, f := range doc.Flights {
		t.Flights = append(t.Flights, domain.FlightOption{
			FlightName: f.FlightName,
			Price:      f.Price,
			Currency:   f.Currency,
			Duration:   f.Duration,
			From:       f.From,
			To:         f.To,
		})
	}
	for _, l := range doc.Locations {
		t.Locations = append(t.Locations, domain.Location{
			Name:            l.Name,
			Description:     l.Description,
			RecommendedTime: l.RecommendedTime,
		})
	}
	for _, d := range doc.Itinerary {
		t.Itinerary = append(t.Itinerary, domain.ItineraryDay{Day: d.Day, Activities: d.Activities})
	}
	return t
}
