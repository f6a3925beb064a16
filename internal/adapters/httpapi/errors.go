package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wayfarelabs/travel-planner-api/internal/app/auth"
	"github.com/wayfarelabs/travel-planner-api/internal/app/photos"
	"github.com/wayfarelabs/travel-planner-api/internal/app/trips"
)

// writeAppError maps application-layer errors onto the response envelope.
// Anything without an HTTP mapping is a 500 with a generic message; the
// detail goes to the log, not the client.
func writeAppError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		respondError(w, authErr.Status, authErr.Message)
		return
	}
	var tripErr *trips.Error
	if errors.As(err, &tripErr) {
		respondError(w, tripErr.Status, tripErr.Message)
		return
	}
	var photoErr *photos.Error
	if errors.As(err, &photoErr) {
		respondError(w, photoErr.Status, photoErr.Message)
		return
	}

	log.Error("unhandled error",
		"method", r.Method, "path", r.URL.Path,
		"requestID", middleware.GetReqID(r.Context()), "err", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
