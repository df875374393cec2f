package rules

import (
	"strconv"
	"strings"

	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/types"
)

/*
 * Assumption -> condition decompilation.
 *
 * The event-id assumption selects a decode strategy; the remaining
 * assumptions are inspected by left term, so the input order beyond the
 * dispatch key does not matter.
 *
 * An unrecognized event id returns (nil, nil): hand-written rules that
 * don't match a known shape are legal, they just aren't reified back into
 * editable conditions. A recognized variableUpdate rule missing its
 * variable name/value pair is malformed, as is any shape carrying an
 * empty device set or empty person/location/task reference: reification
 * only produces conditions the compiler accepts.
 *
 * Canonical temperature convention: only the inTempF variable decompiles
 * to a temperature class (> or >= above, < or <= below). Other variable
 * names besides "on" stay opaque rather than being guessed into a class.
 */

// Decompile reconstructs the bound condition an assumption list was
// compiled from. Returns (nil, nil) when the assumptions carry no known
// event id or no reifiable shape; returns ErrMalformedAssumptionSet when a
// known shape is present but incomplete.
func Decompile(assumptions []Assumption) (condition.Condition, error) {
	byTerm := make(map[string]Assumption, len(assumptions))
	for _, a := range assumptions {
		byTerm[a.LeftTerm] = a
	}

	eventID, ok := byTerm[TermEventID]
	if !ok {
		return nil, types.ErrMalformedAssumptionSet
	}

	switch eventID.RightTerm {
	case types.EventIDVariableUpdate:
		return decompileVariableUpdate(byTerm)
	case types.EventIDDeviceUnavailable:
		devices, err := decompileDeviceSet(byTerm)
		if err != nil {
			return nil, err
		}
		return condition.DeviceUnavailable{Devices: devices}, nil
	case types.EventIDPresenceUpdate:
		return decompilePresenceUpdate(byTerm)
	case types.EventIDExecuteTask:
		task, ok := byTerm[TermTaskCtx]
		if !ok || task.RightTerm == "" {
			return nil, types.ErrMalformedAssumptionSet
		}
		return condition.ManualTaskExecution{Task: types.TaskID(task.RightTerm)}, nil
	default:
		return nil, nil
	}
}

// decompileDeviceSet extracts and validates the device-set assumption.
// Reified conditions must satisfy the same required-property rules the
// compiler enforces; an empty set would produce a condition that can never
// recompile, so it is rejected here and the rule stays opaque.
func decompileDeviceSet(byTerm map[string]Assumption) ([]types.DeviceRef, error) {
	devicesAssump, ok := byTerm[TermDeviceCtx]
	if !ok {
		return nil, types.ErrMalformedAssumptionSet
	}
	devices := parseDeviceSet(devicesAssump.RightTerm)
	if len(devices) == 0 {
		return nil, types.ErrMalformedAssumptionSet
	}
	return devices, nil
}

func decompileVariableUpdate(byTerm map[string]Assumption) (condition.Condition, error) {
	name, okName := byTerm[TermVariableName]
	value, okValue := byTerm[TermVariableValue]
	if !okName || !okValue {
		return nil, types.ErrMalformedAssumptionSet
	}

	devices, err := decompileDeviceSet(byTerm)
	if err != nil {
		return nil, err
	}

	switch name.RightTerm {
	case condition.VariableOn:
		switch strings.ToLower(strings.TrimSpace(value.RightTerm)) {
		case "true":
			return condition.TurnOn{Devices: devices}, nil
		case "false":
			return condition.TurnOff{Devices: devices}, nil
		default:
			return nil, types.ErrMalformedAssumptionSet
		}
	case condition.VariableIndoorTempF:
		tempF, err := strconv.ParseFloat(value.RightTerm, 64)
		if err != nil {
			return nil, types.ErrMalformedAssumptionSet
		}
		switch value.Op {
		case OpGreaterThan, OpGreaterThanOrEqual:
			return condition.IndoorTempAbove{Devices: devices, TempF: tempF}, nil
		case OpLessThan, OpLessThanOrEqual:
			return condition.IndoorTempBelow{Devices: devices, TempF: tempF}, nil
		default:
			return nil, types.ErrMalformedAssumptionSet
		}
	default:
		// Variable names outside the canonical set are legal but opaque.
		return nil, nil
	}
}

func decompilePresenceUpdate(byTerm map[string]Assumption) (condition.Condition, error) {
	person, okPerson := byTerm[TermPerson]
	oldLoc, okOld := byTerm[TermOldLocation]
	newLoc, okNew := byTerm[TermNewLocation]
	if !okPerson || !okOld || !okNew {
		return nil, types.ErrMalformedAssumptionSet
	}
	if person.RightTerm == "" || oldLoc.RightTerm == "" || newLoc.RightTerm == "" {
		return nil, types.ErrMalformedAssumptionSet
	}

	// Arrival: oldLocation <> X, newLocation = X.
	// Departure: oldLocation = X, newLocation <> X.
	switch {
	case oldLoc.Op == OpNotEqual && newLoc.Op == OpEqual && oldLoc.RightTerm == newLoc.RightTerm:
		return condition.PresenceArrival{
			Person:   types.PersonRef(person.RightTerm),
			Location: types.LocationRef(newLoc.RightTerm),
		}, nil
	case oldLoc.Op == OpEqual && newLoc.Op == OpNotEqual && oldLoc.RightTerm == newLoc.RightTerm:
		return condition.PresenceDeparture{
			Person:   types.PersonRef(person.RightTerm),
			Location: types.LocationRef(oldLoc.RightTerm),
		}, nil
	default:
		return nil, types.ErrMalformedAssumptionSet
	}
}
