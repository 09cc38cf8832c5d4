// Package api provides HTTP client functionality for communicating with the
// Textbelt API. It builds form-encoded requests, performs exactly one HTTP
// call per operation and maps the response onto a DTO or a typed error.
//
// # Client Creation
//
// [NewClient] takes a [Config]. The base URL is required; an *http.Client
// is created when none is supplied, and only that owned client has its idle
// connections released by [Client.CloseIdleConnections].
//
// Textbelt authenticates with the key carried in each request's form or
// path, so the transport itself holds no credentials.
//
// # Error Handling
//
// Every failure is exactly one of the types in internal/apierrors:
//
//   - [apierrors.QuotaExceededError]: success=false with a quota message.
//   - [apierrors.InvalidRequestError]: success=false with any other message,
//     or a request that failed local validation.
//   - [apierrors.RateLimitError]: HTTP 429.
//   - [apierrors.APIError]: other non-2xx statuses and malformed bodies.
//   - [apierrors.NetworkError]: the request never produced a response.
//
// Nothing is retried.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
