package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Caller errors
const (
	// ErrCodeConfiguration indicates the provider is not usable with its current configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
)

// Remote errors
const (
	// ErrCodeBackend indicates the backend rejected the request or reported a failure.
	ErrCodeBackend ErrorCode = "BACKEND_ERROR"
	// ErrCodeNetwork indicates a transport-level failure (DNS, connection reset, ...).
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeTimeout indicates the request exceeded its deadline. It is the
	// timeout subclass of ErrCodeNetwork: match both with IsNetwork, since
	// comparing Code(err) against ErrCodeNetwork misses timeouts.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates a bug or an unexpected condition inside the library.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeNetwork:  true,
	ErrCodeTimeout:  true,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code describes a transient failure.
// Nothing in this module retries; the flag is informational for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
