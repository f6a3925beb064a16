package photorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodb "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

// Repo is a MongoDB implementation of photorepo.Repository. The unique index
// on (userId, tripId, imageUrl) arbitrates duplicate assets.
type Repo struct {
	col *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{col: db.Collection(mongodb.PhotosCollection)}
}

type photoDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"userId"`
	TripID     string    `bson:"tripId"`
	ImageURL   string    `bson:"imageUrl"`
	ProviderID string    `bson:"providerId"`
	Caption    *string   `bson:"caption,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func (r *Repo) Create(ctx context.Context, p photorepo.Photo) error {
	doc := photoDoc{
		ID:         string(p.ID),
		UserID:     string(p.UserID),
		TripID:     string(p.TripID),
		ImageURL:   p.ImageURL,
		ProviderID: p.ProviderID,
		Caption:    p.Caption,
		CreatedAt:  p.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return photorepo.ErrDuplicateAsset
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PhotoID) (photorepo.Photo, error) {
	var doc photoDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return photorepo.Photo{}, photorepo.ErrNotFound
		}
		return photorepo.Photo{}, err
	}
	return fromDoc(doc), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]photorepo.Photo, error) {
	return r.list(ctx, bson.M{"tripId": string(tripID)})
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]photorepo.Photo, error) {
	return r.list(ctx, bson.M{"userId": string(userID)})
}

func (r *Repo) Delete(ctx context.Context, id domain.PhotoID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return photorepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteByTrip(ctx context.Context, tripID domain.TripID) (int, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"tripId": string(tripID)})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func (r *Repo) list(ctx context.Context, filter bson.M) ([]photorepo.Photo, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]photorepo.Photo, 0)
	for cur.Next(ctx) {
		var doc photoDoc
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

func fromDoc(doc photoDoc) photorepo.Photo {
	return photorepo.Photo{
		ID:         domain.PhotoID(doc.ID),
		UserID:     domain.UserID(doc.UserID),
		TripID:     domain.TripID(doc.TripID),
		ImageURL:   doc.ImageURL,
		ProviderID: doc.ProviderID,
		Caption:    doc.Caption,
		CreatedAt:  doc.CreatedAt.UTC(),
	}
}
