package exam

import "errors"

var (
	// ErrNotFound is returned by lookups for records that do not exist.
	ErrNotFound = errors.New("exam record not found")

	// ErrTooManyMissingFields rejects requests where so many monitoring
	// parameters are absent that zero-defaulting would hand the classifier a
	// vector of near-zeros.
	ErrTooManyMissingFields = errors.New("too many missing monitoring parameters")

	// ErrStorageUnavailable signals that the record store could not be
	// reached. The prediction pipeline degrades on it instead of failing.
	ErrStorageUnavailable = errors.New("record store unavailable")

	// ErrModelUnavailable means the classifier service could not be reached
	// or reported itself unloaded.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrInferenceFailed means the classifier was reached but did not yield
	// a usable prediction.
	ErrInferenceFailed = errors.New("inference call failed")
)
