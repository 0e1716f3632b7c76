// Package randomuser implements driven.RemoteContactSource against the
// randomuser.me sample-data API.
//
// Requests are throttled client-side with a token bucket. A 429 response
// delays the next request by its Retry-After period; the failed request
// itself is never retried.
package randomuser
