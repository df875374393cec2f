package rules

/*
 * Assumption matching.
 *
 * An assumption list is a pure conjunction: every assumption must hold
 * against the event context for the rule to fire. Short-circuits on the
 * first non-match; the event-id assumption comes first in every compiled
 * list, so rules for other event kinds fail fast.
 *
 * Operator semantics:
 *   - "=" / "<>": textual equality on the serialized value form, so
 *     booleans and numbers compare against their decimal/"true"/"false"
 *     right terms.
 *   - "<" / ">" / ">=" / "<=": numeric comparison; a non-numeric side
 *     never matches.
 *   - "containsatleastone": the field value is a member of the serialized
 *     reference set in the right term.
 */

// Match reports whether every assumption holds against the context.
// An assumption over an unknown left term never matches.
func Match(assumptions []Assumption, ctx EventContext) bool {
	for _, a := range assumptions {
		if !matchOne(a, ctx) {
			return false
		}
	}
	return true
}

func matchOne(a Assumption, ctx EventContext) bool {
	value, ok := ctx.field(a.LeftTerm)
	if !ok {
		return false
	}

	switch a.Op {
	case OpEqual:
		return formatValue(value) == a.RightTerm
	case OpNotEqual:
		return formatValue(value) != a.RightTerm
	case OpLessThan, OpGreaterThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return matchNumeric(a.Op, value, a.RightTerm)
	case OpContainsAtLeastOne:
		return matchContains(value, a.RightTerm)
	default:
		return false
	}
}

func matchNumeric(op string, value any, rightTerm string) bool {
	left, okLeft := toFloat(value)
	right, okRight := toFloat(rightTerm)
	if !okLeft || !okRight {
		return false
	}
	switch op {
	case OpLessThan:
		return left < right
	case OpGreaterThan:
		return left > right
	case OpGreaterThanOrEqual:
		return left >= right
	case OpLessThanOrEqual:
		return left <= right
	default:
		return false
	}
}

func matchContains(value any, rightTerm string) bool {
	needle := formatValue(value)
	if needle == "" {
		return false
	}
	for _, ref := range parseDeviceSet(rightTerm) {
		if string(ref) == needle {
			return true
		}
	}
	return false
}
