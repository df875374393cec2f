package types

import "errors"

// Sentinel errors for RuleKeeper operations.
//
// Validation failures (missing property, unrecognized condition) are
// recoverable caller errors surfaced from mutating operations; they are
// deliberately distinct from I/O failures, which are wrapped with context
// at the persistence boundary.
var (
	// ErrMissingRequiredProperty indicates a condition lacks a property its
	// class requires (e.g. a device condition bound to zero devices).
	ErrMissingRequiredProperty = errors.New("condition is missing a required property")

	// ErrUnrecognizedCondition indicates a condition class id with no
	// compiler entry.
	ErrUnrecognizedCondition = errors.New("unrecognized condition class")

	// ErrMalformedAssumptionSet indicates a persisted rule's assumptions
	// carry a known event id but do not match any decodable shape.
	ErrMalformedAssumptionSet = errors.New("malformed assumption set")

	// ErrTaskNotFound indicates an update or delete referencing an unknown
	// task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotTriggerCondition indicates an attempt to use an evaluator-only
	// condition class as a task's trigger.
	ErrNotTriggerCondition = errors.New("condition class is not a trigger")

	// ErrClassAlreadyRegistered indicates a duplicate condition class id
	// within one registry namespace.
	ErrClassAlreadyRegistered = errors.New("condition class already registered")

	// ErrClassNotFound indicates a condition class id absent from the registry.
	ErrClassNotFound = errors.New("condition class not found")
)
