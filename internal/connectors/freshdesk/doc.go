// Package freshdesk implements the ticket sink on the Freshdesk REST API v2.
//
// Requests authenticate with the API key as the basic-auth user and "X" as
// the password. A 429 response is retried indefinitely: the client sleeps
// for the Retry-After seconds plus one and sends the same request again.
// Every other response, successful or not, is returned to the caller.
//
// CreateTicket treats anything but 201 Created as a rejection wrapping
// [domain.ErrSinkRejected]. Transport failures are [domain.UpstreamError].
package freshdesk
