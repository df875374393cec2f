// Package condition defines the condition class schemas a hub exposes to
// rule authors and the bound condition values attached to tasks.
//
// A Class describes a trigger type (id, display name, description template,
// property schema) and is immutable after registration. A Condition is a
// bound instance of one class, modeled as a closed tagged union so the
// compiler's type switch is exhaustive: adding a class is a
// compile-time-checked extension point rather than a string dispatch.
package condition

// PropertyType enumerates the value types a condition property can hold.
type PropertyType int

const (
	PropertyTypeUnspecified PropertyType = iota
	PropertyTypeDeviceRef
	PropertyTypeDeviceRefSet
	PropertyTypeNumber
	PropertyTypeString
	PropertyTypePresenceEntityRef
	PropertyTypePresenceLocationRef
	PropertyTypeTaskRef
)

// ClassType distinguishes trigger classes, which may start a task, from
// evaluator-only classes, which may not.
type ClassType int

const (
	ClassTypeTrigger ClassType = iota
	ClassTypeEvaluator
)

// Property describes one named, typed parameter of a condition class.
type Property struct {
	Name        string
	DisplayName string
	Description string
	Type        PropertyType
	Required    bool

	// DeviceVariable constrains device-ref-set properties to devices that
	// expose the named variable (e.g. "on", "inTempF"). Empty means no
	// constraint.
	DeviceVariable string

	// Public controls whether the property is rendered in condition editors.
	Public bool
}

// Class describes a condition class: its identity, how to render it, and
// the ordered properties a bound condition must supply.
type Class struct {
	ID                  string
	DisplayName         string
	DescriptionTemplate string // contains {propertyName} placeholders
	Type                ClassType
	Properties          []Property
}

// Condition class identifiers published by this provider.
const (
	ClassTurnOn              = "turnOn"
	ClassTurnOff             = "turnOff"
	ClassIndoorTempAbove     = "inTempAbove"
	ClassIndoorTempBelow     = "inTempBelow"
	ClassDeviceUnavailable   = "deviceNotAvailable"
	ClassPresenceArrival     = "presenceArrival"
	ClassPresenceDeparture   = "presenceDeparture"
	ClassManualTaskExecution = "manualTaskExecution"
)

// Device variable names referenced by the built-in classes.
const (
	VariableOn          = "on"
	VariableIndoorTempF = "inTempF"
)

func deviceSetProperty(variable string) Property {
	return Property{
		Name:           "devices",
		DisplayName:    "Devices",
		Description:    "The device(s) to monitor",
		Type:           PropertyTypeDeviceRefSet,
		Required:       true,
		DeviceVariable: variable,
		Public:         true,
	}
}

// BuiltinClasses returns the full set of condition classes this provider
// publishes, in registration order.
func BuiltinClasses() []Class {
	return []Class{
		{
			ID:                  ClassTurnOn,
			DisplayName:         "A device turns on",
			DescriptionTemplate: "{devices} turns on",
			Type:                ClassTypeTrigger,
			Properties:          []Property{deviceSetProperty(VariableOn)},
		},
		{
			ID:                  ClassTurnOff,
			DisplayName:         "A device turns off",
			DescriptionTemplate: "{devices} turns off",
			Type:                ClassTypeTrigger,
			Properties:          []Property{deviceSetProperty(VariableOn)},
		},
		{
			ID:                  ClassIndoorTempAbove,
			DisplayName:         "An indoor temperature rises above",
			DescriptionTemplate: "{devices} indoor temperature rises above {inTempF}",
			Type:                ClassTypeTrigger,
			Properties: []Property{
				deviceSetProperty(VariableIndoorTempF),
				{
					Name:        "inTempF",
					DisplayName: "Temperature",
					Description: "The temperature in Fahrenheit",
					Type:        PropertyTypeNumber,
					Required:    true,
					Public:      true,
				},
			},
		},
		{
			ID:                  ClassIndoorTempBelow,
			DisplayName:         "An indoor temperature falls below",
			DescriptionTemplate: "{devices} indoor temperature falls below {inTempF}",
			Type:                ClassTypeTrigger,
			Properties: []Property{
				deviceSetProperty(VariableIndoorTempF),
				{
					Name:        "inTempF",
					DisplayName: "Temperature",
					Description: "The temperature in Fahrenheit",
					Type:        PropertyTypeNumber,
					Required:    true,
					Public:      true,
				},
			},
		},
		{
			ID:                  ClassDeviceUnavailable,
			DisplayName:         "A device becomes unavailable",
			DescriptionTemplate: "{devices} become(s) unavailable",
			Type:                ClassTypeTrigger,
			Properties:          []Property{deviceSetProperty("")},
		},
		{
			ID:                  ClassPresenceArrival,
			DisplayName:         "A person arrives somewhere",
			DescriptionTemplate: "{person} arrives {location}",
			Type:                ClassTypeTrigger,
			Properties: []Property{
				{
					Name:        "person",
					DisplayName: "Person",
					Description: "The person to monitor",
					Type:        PropertyTypePresenceEntityRef,
					Required:    true,
					Public:      true,
				},
				{
					Name:        "location",
					DisplayName: "Location",
					Description: "The location the person arrives at",
					Type:        PropertyTypePresenceLocationRef,
					Required:    true,
					Public:      true,
				},
			},
		},
		{
			ID:                  ClassPresenceDeparture,
			DisplayName:         "A person departs somewhere",
			DescriptionTemplate: "{person} departs {location}",
			Type:                ClassTypeTrigger,
			Properties: []Property{
				{
					Name:        "person",
					DisplayName: "Person",
					Description: "The person to monitor",
					Type:        PropertyTypePresenceEntityRef,
					Required:    true,
					Public:      true,
				},
				{
					Name:        "location",
					DisplayName: "Location",
					Description: "The location the person departs from",
					Type:        PropertyTypePresenceLocationRef,
					Required:    true,
					Public:      true,
				},
			},
		},
		{
			ID:                  ClassManualTaskExecution,
			DisplayName:         "The task is manually executed",
			DescriptionTemplate: "The task is manually executed",
			Type:                ClassTypeTrigger,
			Properties: []Property{
				{
					Name:        "task",
					DisplayName: "Task",
					Description: "The task that is executed",
					Type:        PropertyTypeTaskRef,
					Required:    true,
					Public:      false,
				},
			},
		},
	}
}
