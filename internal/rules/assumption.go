// Package rules implements the bidirectional translation between bound
// conditions and flat assumption lists, and the matching of assumption
// lists against event contexts.
//
// An assumption is an atomic predicate (leftTerm, op, rightTerm) over the
// canonical event-context fields. An ordered assumption list forms a
// conjunctive rule precondition; the first assumption always tests
// event.eventId, which the decompiler uses as its dispatch key.
package rules

import (
	"strconv"
	"strings"

	"github.com/homectl/rulekeeper/internal/types"
)

// Comparison operators supported in assumptions.
const (
	OpEqual              = "="
	OpNotEqual           = "<>"
	OpLessThan           = "<"
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
	OpLessThanOrEqual    = "<="
	OpContainsAtLeastOne = "containsatleastone"
)

// Left terms: dotted paths into the canonical event-context fields.
const (
	TermEventID          = "event.eventId"
	TermDeviceCtx        = "event.deviceCtx"
	TermVariableName     = "event.variableName"
	TermVariableOldValue = "event.variableOldValue"
	TermVariableValue    = "event.variableValue"
	TermPerson           = "event.person"
	TermOldLocation      = "event.oldLocation"
	TermNewLocation      = "event.newLocation"
	TermTaskCtx          = "event.taskCtx"
)

// Assumption is an atomic predicate over one event-context field. The
// right term is always a string-serialized literal: numbers as decimal
// text, booleans as "true"/"false", device-reference sets as
// "[ref1,ref2,...]".
type Assumption struct {
	LeftTerm  string `json:"leftTerm"`
	Op        string `json:"op"`
	RightTerm string `json:"rightTerm"`
}

// formatDeviceSet serializes a device-reference set in insertion order.
// Order stability across repeated compiles of the same condition is
// required for idempotent persistence.
func formatDeviceSet(refs []types.DeviceRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = string(ref)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// parseDeviceSet parses a "[ref1,ref2,...]" right term.
// An empty set serialization yields an empty slice, not nil.
func parseDeviceSet(s string) []types.DeviceRef {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return []types.DeviceRef{}
	}
	parts := strings.Split(s, ",")
	refs := make([]types.DeviceRef, len(parts))
	for i, p := range parts {
		refs[i] = types.DeviceRef(p)
	}
	return refs
}

// formatNumber serializes a numeric literal as decimal text.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue serializes an arbitrary event value the way right terms are
// serialized, so equality comparisons work on the textual form.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// toFloat converts an event value to float64 for ordered comparison.
// Numeric strings are accepted since variable values arrive untyped from
// some hubs.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
