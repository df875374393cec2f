// Package types provides domain models shared across RuleKeeper components.
//
// String-alias reference types keep the package free of host SDK
// dependencies: a DeviceRef is whatever opaque identifier the hub uses
// (e.g. "local:zwave:zwave-32") and is never parsed here, only compared.
package types

// TaskID identifies a registered task (rule).
// String alias enables type safety while maintaining JSON string serialization.
type TaskID string

// DeviceRef is an opaque reference to a device known to the hub.
type DeviceRef string

// PersonRef is an opaque reference to a presence entity (a tracked person).
type PersonRef string

// LocationRef is an opaque reference to a presence location.
type LocationRef string

// Event identifiers used as the dispatch key of every compiled rule.
// The first assumption of a compiled condition always tests event.eventId
// against one of these values.
const (
	EventIDVariableUpdate    = "variableUpdate"
	EventIDDeviceUnavailable = "deviceUnavailable"
	EventIDPresenceUpdate    = "presenceUpdate"
	EventIDExecuteTask       = "executeTask"
)

// Event is a domain event pushed by the host's event bus.
// The closed set of variants below is the only input the evaluation
// pipeline understands; anything else is silently ignored.
type Event interface {
	EventID() string
}

// VariableUpdate is a single variable change on one device.
type VariableUpdate struct {
	Device   DeviceRef
	Name     string
	OldValue any
	NewValue any
}

// VariableUpdateEvent carries a batch of variable changes.
// Each change is evaluated independently, never as a batch.
type VariableUpdateEvent struct {
	Updates []VariableUpdate
}

func (VariableUpdateEvent) EventID() string { return EventIDVariableUpdate }

// DeviceUnavailableEvent signals that a device stopped responding.
type DeviceUnavailableEvent struct {
	Device DeviceRef
}

func (DeviceUnavailableEvent) EventID() string { return EventIDDeviceUnavailable }

// PresenceUpdateEvent signals that a person moved between locations.
// Old or new location may be empty when unknown.
type PresenceUpdateEvent struct {
	Person      PersonRef
	OldLocation LocationRef
	NewLocation LocationRef
}

func (PresenceUpdateEvent) EventID() string { return EventIDPresenceUpdate }

// ExecuteTaskEvent signals that a task was manually executed.
type ExecuteTaskEvent struct {
	Task TaskID
}

func (ExecuteTaskEvent) EventID() string { return EventIDExecuteTask }
