// Package results provides the operation result variant used by service
// operations. An operation either succeeds, fails with a typed domain
// failure, or succeeds in a degraded form (a safe default was substituted
// for a missing or broken signal). Degradation carries an explicit reason
// so callers and tests can tell "no signal" apart from "signal failed"
// instead of relying on invisible catch-and-default behavior.
package results

// OperationResult holds exactly one of Success or Failure. A successful
// result may additionally be marked degraded.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F

	// DegradedReason is non-empty when the success value was produced with
	// a fallback (e.g. reward history unavailable, AI rating missing).
	DegradedReason string
}

// SuccessResult wraps a success value.
func SuccessResult[S any, F any](value S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &value}
}

// FailureResult wraps a domain failure value.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

// DegradedResult wraps a success value that was computed with a fallback.
func DegradedResult[S any, F any](value S, reason string) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &value, DegradedReason: reason}
}

// IsSuccess reports whether the operation produced a usable value,
// degraded or not.
func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether the operation failed with a domain failure.
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }

// IsDegraded reports whether the success value was produced with a fallback.
func (r OperationResult[S, F]) IsDegraded() bool {
	return r.Success != nil && r.DegradedReason != ""
}
