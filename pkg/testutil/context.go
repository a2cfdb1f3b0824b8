package testutil

import (
	"net/http"
	"time"

	"gavel/pkg/requestcontext"
)

// WithActor stamps an acting identity on the request context, simulating what
// the actor middleware does for authenticated requests.
func WithActor(req *http.Request, actorID string, roles ...string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actorID, roles)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock so handlers under test
// produce deterministic timestamps.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
