// Package delivery polls the status of a sent message until it settles.
//
// # Backoff
//
// [Poller] starts at a short interval and multiplies it after every poll
// that did not settle, up to a ceiling. Jitter is added to each wait so
// many pollers started together spread out:
//
//   - intervals grow from 2s to 30s by a factor of 1.5
//   - each wait adds up to 30% jitter
//
// A failing fetch ends the poll with that error; nothing is retried.
//
// # Usage
//
//	status, err := delivery.Poll(ctx, delivery.Poller{}, fetch, func(s string) bool {
//	    return s == "DELIVERED" || s == "FAILED"
//	})
package delivery
