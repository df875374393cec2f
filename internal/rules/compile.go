package rules

import (
	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/types"
)

/*
 * Condition -> assumption compilation.
 *
 * Each supported condition class compiles to a fixed, ordered assumption
 * list. Order is significant: persisted documents are diffed and tested
 * positionally, and the event-id assumption must come first because it is
 * the decompiler's dispatch key.
 *
 * The type switch over the sealed condition union is exhaustive; an
 * unknown variant (a class registered without a compiler entry) is a
 * caller error, not a panic.
 */

// Compile translates a bound condition into its ordered assumption list.
// Returns ErrMissingRequiredProperty when a required property is unbound
// (e.g. a device condition with zero devices) and ErrUnrecognizedCondition
// for condition variants without a compile rule.
func Compile(c condition.Condition) ([]Assumption, error) {
	switch v := c.(type) {
	case condition.TurnOn:
		return compileOnOff(v.Devices, "true")
	case condition.TurnOff:
		return compileOnOff(v.Devices, "false")
	case condition.IndoorTempAbove:
		return compileTemp(v.Devices, OpGreaterThan, v.TempF)
	case condition.IndoorTempBelow:
		return compileTemp(v.Devices, OpLessThan, v.TempF)
	case condition.DeviceUnavailable:
		if len(v.Devices) == 0 {
			return nil, types.ErrMissingRequiredProperty
		}
		return []Assumption{
			{TermEventID, OpEqual, types.EventIDDeviceUnavailable},
			{TermDeviceCtx, OpContainsAtLeastOne, formatDeviceSet(v.Devices)},
		}, nil
	case condition.PresenceArrival:
		if v.Person == "" || v.Location == "" {
			return nil, types.ErrMissingRequiredProperty
		}
		return []Assumption{
			{TermEventID, OpEqual, types.EventIDPresenceUpdate},
			{TermPerson, OpEqual, string(v.Person)},
			{TermOldLocation, OpNotEqual, string(v.Location)},
			{TermNewLocation, OpEqual, string(v.Location)},
		}, nil
	case condition.PresenceDeparture:
		if v.Person == "" || v.Location == "" {
			return nil, types.ErrMissingRequiredProperty
		}
		return []Assumption{
			{TermEventID, OpEqual, types.EventIDPresenceUpdate},
			{TermPerson, OpEqual, string(v.Person)},
			{TermOldLocation, OpEqual, string(v.Location)},
			{TermNewLocation, OpNotEqual, string(v.Location)},
		}, nil
	case condition.ManualTaskExecution:
		if v.Task == "" {
			return nil, types.ErrMissingRequiredProperty
		}
		return []Assumption{
			{TermEventID, OpEqual, types.EventIDExecuteTask},
			{TermTaskCtx, OpEqual, string(v.Task)},
		}, nil
	default:
		return nil, types.ErrUnrecognizedCondition
	}
}

func compileOnOff(devices []types.DeviceRef, value string) ([]Assumption, error) {
	if len(devices) == 0 {
		return nil, types.ErrMissingRequiredProperty
	}
	return []Assumption{
		{TermEventID, OpEqual, types.EventIDVariableUpdate},
		{TermDeviceCtx, OpContainsAtLeastOne, formatDeviceSet(devices)},
		{TermVariableName, OpEqual, condition.VariableOn},
		{TermVariableValue, OpEqual, value},
	}, nil
}

func compileTemp(devices []types.DeviceRef, op string, tempF float64) ([]Assumption, error) {
	if len(devices) == 0 {
		return nil, types.ErrMissingRequiredProperty
	}
	return []Assumption{
		{TermEventID, OpEqual, types.EventIDVariableUpdate},
		{TermDeviceCtx, OpContainsAtLeastOne, formatDeviceSet(devices)},
		{TermVariableName, OpEqual, condition.VariableIndoorTempF},
		{TermVariableValue, op, formatNumber(tempF)},
	}, nil
}
