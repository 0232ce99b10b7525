// Package kerrors defines the error taxonomy from spec §7 as sentinel
// values usable with errors.Is, rather than as a hierarchy of concrete
// types. The kernel never panics for an expected failure; every stage of
// cast/activate/resolve returns a wrapped sentinel instead, mirroring the
// teacher's "model rollback as a result, not a panic" design note.
package kerrors

import "errors"

// Sentinel kinds. Wrap these with fmt.Errorf("...: %w", Kind) to attach
// detail while keeping errors.Is(err, kerrors.RuleViolation) working.
var (
	// RuleViolation means an agent chose an illegal action.
	RuleViolation = errors.New("rule violation")

	// TargetBecameIllegal means a stack item's targets were no longer
	// legal at resolution time; the caller should fizzle, not halt.
	TargetBecameIllegal = errors.New("target became illegal")

	// UnknownAbilityCode means the dispatcher was asked to resolve a code
	// it has no registered effect function for. Fatal: halts the game.
	UnknownAbilityCode = errors.New("unknown ability code")

	// DeckValidationError is raised before a game starts.
	DeckValidationError = errors.New("deck validation error")

	// AgentTimeout means a synchronous agent call did not return within
	// the caller-imposed wall-clock budget (enforced by the caller that
	// wraps the agent, not by the core itself).
	AgentTimeout = errors.New("agent timeout")

	// AgentProtocolError means an agent returned something the core
	// cannot interpret as a legal response shape.
	AgentProtocolError = errors.New("agent protocol error")

	// Internal marks a bug-class invariant violation. Halts hard.
	Internal = errors.New("internal invariant violation")
)

// Fatal reports whether err belongs to a class that must halt the match
// immediately rather than being retried or silently absorbed.
func Fatal(err error) bool {
	return errors.Is(err, UnknownAbilityCode) ||
		errors.Is(err, DeckValidationError) ||
		errors.Is(err, AgentTimeout) ||
		errors.Is(err, AgentProtocolError) ||
		errors.Is(err, Internal)
}

// Recoverable reports whether err is the kind of failure that should be
// logged into the trace and retried against the offending agent, per
// spec §7's retry-then-forfeit rule for RuleViolation.
func Recoverable(err error) bool {
	return errors.Is(err, RuleViolation) || errors.Is(err, TargetBecameIllegal)
}
