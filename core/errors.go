package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the analysis core. Callers branch on these with
// errors.Is; the typed errors below carry the structured detail.
var (
	// ErrInputOutOfRange marks an ambient parameter outside its validated
	// domain. Requests failing this check are rejected before any
	// computation starts.
	ErrInputOutOfRange = errors.New("input out of range")

	// ErrConfiguration marks malformed input data discovered while
	// building a topology or loading a scenario (e.g. a line referencing
	// a conductor that is not in the library). Fails the whole request.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNonConvergence marks a thermal solve that did not converge
	// within its iteration budget. Recorded per line, never fatal to a
	// batch.
	ErrNonConvergence = errors.New("thermal rating did not converge")

	// ErrIslandedNetwork marks a power-flow solve whose topology view is
	// disconnected from the reference bus. During contingency analysis
	// this is an outcome, not a crash.
	ErrIslandedNetwork = errors.New("network islanded")
)

// InputOutOfRangeError reports which parameter violated its domain.
type InputOutOfRangeError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *InputOutOfRangeError) Error() string {
	return fmt.Sprintf("%s=%g outside validated domain [%g, %g]", e.Param, e.Value, e.Min, e.Max)
}

func (e *InputOutOfRangeError) Unwrap() error { return ErrInputOutOfRange }

// NonConvergenceError reports a failed steady-state rating solve for one
// conductor under one ambient condition.
type NonConvergenceError struct {
	Conductor  string
	MaxOpTempC float64
	Iterations int
	Reason     string
}

func (e *NonConvergenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("rating for conductor %q (MOT %.1f°C): %s", e.Conductor, e.MaxOpTempC, e.Reason)
	}
	return fmt.Sprintf("rating for conductor %q (MOT %.1f°C) did not converge after %d iterations",
		e.Conductor, e.MaxOpTempC, e.Iterations)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }

// IslandedNetworkError reports a topology view with buses unreachable from
// the reference bus. OutagedLine is empty when the base case itself is
// disconnected.
type IslandedNetworkError struct {
	OutagedLine      string
	UnreachableBuses []string
}

func (e *IslandedNetworkError) Error() string {
	if e.OutagedLine == "" {
		return fmt.Sprintf("network islanded: buses [%s] unreachable from reference",
			strings.Join(e.UnreachableBuses, ", "))
	}
	return fmt.Sprintf("loss of line %q islands buses [%s]",
		e.OutagedLine, strings.Join(e.UnreachableBuses, ", "))
}

func (e *IslandedNetworkError) Unwrap() error { return ErrIslandedNetwork }
