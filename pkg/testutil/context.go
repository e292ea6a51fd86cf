package testutil

import (
	"net/http"

	id "africonnect/pkg/domain"
	"africonnect/pkg/requestcontext"
)

// WithActor adds an authenticated user and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, userID id.UserID, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), userID, role))
}
