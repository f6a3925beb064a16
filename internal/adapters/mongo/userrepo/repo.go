package userrepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

// Repo is a MongoDB implementation of userrepo.Repository.
type Repo struct {
	col *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{col: db.Collection(mongodb.UsersCollection)}
}

type userDoc struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"passwordHash"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	doc := userDoc{
		ID:           string(u.ID),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		// The only secondary unique index on users is email.
		if mongo.IsDuplicateKeyError(err) {
			return userrepo.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *Repo) TouchLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	// A missing user is not an error here.
	_, err := r.col.UpdateByID(ctx, string(id), bson.M{
		"$set": bson.M{"lastLogin": at.UTC(), "updatedAt": at.UTC()},
	})
	return err
}

func (r *Repo) findOne(ctx context.Context, filter bson.M) (userrepo.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	return toUser(doc), nil
}

func toUser(doc userDoc) userrepo.User {
	u := userrepo.User{
		ID:           domain.UserID(doc.ID),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
	if doc.LastLogin != nil {
		t := doc.LastLogin.UTC()
		u.LastLogin = &t
	}
	return u
}
