package rules

import (
	"github.com/homectl/rulekeeper/internal/types"
)

/*
 * Event context construction.
 *
 * An EventContext is the canonical flat fact tuple passed to one
 * evaluation call. A batched variable-update event fans out into one
 * context per change: rules are evaluated independently per changed
 * variable, never batched. Unsupported event kinds yield an empty list,
 * which the pipeline treats as a deliberate filter rather than an error.
 */

// EventContext is the flat fact tuple one evaluation call runs against.
// Fields not populated by the event variant stay zero-valued.
type EventContext struct {
	EventID          string
	DeviceCtx        types.DeviceRef
	VariableName     string
	VariableOldValue any
	VariableValue    any
	Person           types.PersonRef
	OldLocation      types.LocationRef
	NewLocation      types.LocationRef
	TaskCtx          types.TaskID
}

// BuildContexts converts a domain event into the contexts to evaluate.
// Returns nil for event kinds the evaluator does not support.
func BuildContexts(event types.Event) []EventContext {
	switch e := event.(type) {
	case types.VariableUpdateEvent:
		contexts := make([]EventContext, 0, len(e.Updates))
		for _, u := range e.Updates {
			contexts = append(contexts, EventContext{
				EventID:          types.EventIDVariableUpdate,
				DeviceCtx:        u.Device,
				VariableName:     u.Name,
				VariableOldValue: u.OldValue,
				VariableValue:    u.NewValue,
			})
		}
		return contexts
	case types.DeviceUnavailableEvent:
		return []EventContext{{
			EventID:   types.EventIDDeviceUnavailable,
			DeviceCtx: e.Device,
		}}
	case types.PresenceUpdateEvent:
		return []EventContext{{
			EventID:     types.EventIDPresenceUpdate,
			Person:      e.Person,
			OldLocation: e.OldLocation,
			NewLocation: e.NewLocation,
		}}
	case types.ExecuteTaskEvent:
		return []EventContext{{
			EventID: types.EventIDExecuteTask,
			TaskCtx: e.Task,
		}}
	default:
		return nil
	}
}

// field resolves a left-term path to the context value it names.
func (c EventContext) field(term string) (any, bool) {
	switch term {
	case TermEventID:
		return c.EventID, true
	case TermDeviceCtx:
		return string(c.DeviceCtx), true
	case TermVariableName:
		return c.VariableName, true
	case TermVariableOldValue:
		return c.VariableOldValue, true
	case TermVariableValue:
		return c.VariableValue, true
	case TermPerson:
		return string(c.Person), true
	case TermOldLocation:
		return string(c.OldLocation), true
	case TermNewLocation:
		return string(c.NewLocation), true
	case TermTaskCtx:
		return string(c.TaskCtx), true
	default:
		return nil, false
	}
}
