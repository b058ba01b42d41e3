package testutil

import (
	"net/http"
	"time"

	id "assetgate/pkg/domain"
	"assetgate/pkg/requestcontext"
)

// WithCaller adds a caller address to the request context. This simulates
// what the operator auth middleware does for authenticated requests.
func WithCaller(req *http.Request, caller string) *http.Request {
	addr, err := id.ParseAddress(caller)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), addr))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request-scoped clock, as the request-time middleware
// would.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
