package photorepo

import "errors"

var (
	ErrNotFound       = errors.New("photo not found")
	ErrDuplicateAsset = errors.New("asset already registered for this trip")
)
