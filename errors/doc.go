// Package errors provides the error taxonomy shared by every llmstream backend.
//
// Backends never return bare errors to the consumer of a stream. Each failure
// is classified into one of a small set of codes so callers can branch on the
// kind of failure without knowing which backend produced it:
//
//   - CONFIGURATION_ERROR: missing token, missing or malformed model id.
//     Raised before any network call is made.
//   - BACKEND_ERROR: the backend was reachable but rejected the request or
//     reported a failure envelope. The backend's own code and description are
//     preserved in the error details.
//   - NETWORK_ERROR: a transport failure that is not a cancellation.
//
// Cancellation is deliberately absent from the taxonomy: a cancelled stream
// ends with no chunks and no error.
package errors
