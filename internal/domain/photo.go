package domain

import "time"

// Photo is metadata for a binary asset held in the remote asset store.
// The (UserID, TripID, ImageURL) triple is unique: the same uploaded asset
// cannot be registered twice against a trip.
type Photo struct {
	ID     PhotoID
	UserID UserID
	TripID TripID

	// ImageURL is the remote asset reference returned by the asset store.
	ImageURL string
	// ProviderID is the asset store's own identifier, used for deletion.
	ProviderID string

	Caption *string

	CreatedAt time.Time
}
