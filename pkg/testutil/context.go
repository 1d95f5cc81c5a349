package testutil

import (
	"net/http"
	"time"

	"accountd/pkg/requestcontext"
)

// WithRequestScope sets the request ID and pinned time the middleware chain
// would normally provide, for calling handler methods directly.
func WithRequestScope(req *http.Request, requestID string, now time.Time) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	ctx = requestcontext.WithTime(ctx, now)
	return req.WithContext(ctx)
}
