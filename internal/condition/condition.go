package condition

import (
	"github.com/homectl/rulekeeper/internal/types"
)

// Condition is a bound condition instance: one class plus its property
// values. The interface is sealed so the set of variants is closed; the
// compiler and decompiler switch over it exhaustively.
type Condition interface {
	ClassID() string
	isCondition()
}

// TurnOn triggers when any of the bound devices turns on.
type TurnOn struct {
	Devices []types.DeviceRef
}

func (TurnOn) ClassID() string { return ClassTurnOn }
func (TurnOn) isCondition()    {}

// TurnOff triggers when any of the bound devices turns off.
type TurnOff struct {
	Devices []types.DeviceRef
}

func (TurnOff) ClassID() string { return ClassTurnOff }
func (TurnOff) isCondition()    {}

// IndoorTempAbove triggers when a bound device reports an indoor
// temperature above the threshold (degrees Fahrenheit).
type IndoorTempAbove struct {
	Devices []types.DeviceRef
	TempF   float64
}

func (IndoorTempAbove) ClassID() string { return ClassIndoorTempAbove }
func (IndoorTempAbove) isCondition()    {}

// IndoorTempBelow triggers when a bound device reports an indoor
// temperature below the threshold (degrees Fahrenheit).
type IndoorTempBelow struct {
	Devices []types.DeviceRef
	TempF   float64
}

func (IndoorTempBelow) ClassID() string { return ClassIndoorTempBelow }
func (IndoorTempBelow) isCondition()    {}

// DeviceUnavailable triggers when any of the bound devices becomes
// unavailable.
type DeviceUnavailable struct {
	Devices []types.DeviceRef
}

func (DeviceUnavailable) ClassID() string { return ClassDeviceUnavailable }
func (DeviceUnavailable) isCondition()    {}

// PresenceArrival triggers when the person arrives at the location.
type PresenceArrival struct {
	Person   types.PersonRef
	Location types.LocationRef
}

func (PresenceArrival) ClassID() string { return ClassPresenceArrival }
func (PresenceArrival) isCondition()    {}

// PresenceDeparture triggers when the person departs the location.
type PresenceDeparture struct {
	Person   types.PersonRef
	Location types.LocationRef
}

func (PresenceDeparture) ClassID() string { return ClassPresenceDeparture }
func (PresenceDeparture) isCondition()    {}

// ManualTaskExecution triggers when the referenced task is executed
// manually.
type ManualTaskExecution struct {
	Task types.TaskID
}

func (ManualTaskExecution) ClassID() string { return ClassManualTaskExecution }
func (ManualTaskExecution) isCondition()    {}
