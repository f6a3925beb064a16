package domain

// UserID is an internal identifier for a user account. It doubles as the
// authenticated subject carried in token claims (JWT "sub").
type UserID string

// TripID is an internal identifier for a trip record.
type TripID string

// PhotoID is an internal identifier for a photo metadata record.
type PhotoID string
