package testutil

import (
	"net/http"
	"time"

	id "soulmint/pkg/domain"
	"soulmint/pkg/requestcontext"
)

// WithAccount adds an authenticated account to the request context.
// This simulates what RequireAuth does for authenticated requests.
func WithAccount(req *http.Request, account id.AccountID) *http.Request {
	return req.WithContext(requestcontext.WithAccount(req.Context(), account))
}

// WithTime pins the request clock so handlers and services see a fixed now.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// Account returns a deterministic non-zero account for tests.
func Account(seed byte) id.AccountID {
	var a id.AccountID
	a[0] = 0xa0
	a[19] = seed
	return a
}
