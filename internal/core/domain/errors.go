package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedLanguage indicates no detector is registered for a language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrRunInProgress indicates a detection run is already active for an application.
	ErrRunInProgress = errors.New("detection run in progress")

	// Failure taxonomy.

	// ErrConfigurationMissing indicates a required configuration value is absent.
	// Raised at composition time and fatal for the process.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrGraphQuery indicates the graph store query failed.
	// Aborts the current detection run.
	ErrGraphQuery = errors.New("graph query failed")

	// ErrClassifierNotReady indicates Predict was called before a successful EnsureReady.
	// This is a programming error, not a recoverable condition.
	ErrClassifierNotReady = errors.New("classifier not ready")

	// ErrClassifierUnavailable indicates the classifier could not be trained or loaded.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrRemoteSync indicates a failed exchange with the oracle.
	// Non-fatal: detection falls back to local classification.
	ErrRemoteSync = errors.New("remote sync failed")

	// ErrOracleDisabled indicates the oracle is switched off by configuration.
	ErrOracleDisabled = errors.New("oracle disabled")

	// ErrCatalogWrite indicates the framework catalog rejected a write.
	// Recorded per candidate, does not abort the run.
	ErrCatalogWrite = errors.New("catalog write failed")

	// ErrRateLimited indicates the oracle rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// FailureKind names the taxonomy bucket of a recorded failure.
type FailureKind string

// Failure kinds recorded in a detection run.
const (
	FailureConfiguration FailureKind = "configuration_missing"
	FailureGraphQuery    FailureKind = "graph_query"
	FailureClassifier    FailureKind = "classifier"
	FailureRemoteSync    FailureKind = "remote_sync"
	FailureCatalogWrite  FailureKind = "catalog_write"
	FailureUnknown       FailureKind = "unknown"
)

// KindOf maps an error onto the failure taxonomy.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfigurationMissing):
		return FailureConfiguration
	case errors.Is(err, ErrGraphQuery):
		return FailureGraphQuery
	case errors.Is(err, ErrClassifierNotReady), errors.Is(err, ErrClassifierUnavailable):
		return FailureClassifier
	case errors.Is(err, ErrRemoteSync), errors.Is(err, ErrRateLimited):
		return FailureRemoteSync
	case errors.Is(err, ErrCatalogWrite):
		return FailureCatalogWrite
	default:
		return FailureUnknown
	}
}

// Failure is a failure recorded against a single candidate of a run.
type Failure struct {
	Kind         FailureKind
	Candidate    string
	InternalType string
	Err          error
}

// NewFailure builds a Failure, deriving its kind from err.
func NewFailure(candidate CandidateObject, err error) Failure {
	return Failure{
		Kind:         KindOf(err),
		Candidate:    candidate.Name,
		InternalType: candidate.InternalType,
		Err:          err,
	}
}

// Error implements the error interface.
func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s/%s): %v", f.Kind, f.Candidate, f.InternalType, f.Err)
}

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error {
	return f.Err
}

// RemoteError describes a failed oracle call.
type RemoteError struct {
	// Op is the oracle operation (ping, last-update, pull, forecast, find).
	Op string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("oracle %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("oracle %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteSync, e.Err}
}

// IsBadRequest reports whether the oracle rejected the request itself.
func (e *RemoteError) IsBadRequest() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
