package store

import (
	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/rules"
	"github.com/homectl/rulekeeper/internal/types"
)

// ActionRef names the side effect a fired rule dispatches: either an
// opaque action-set id or a fire-trigger instruction carrying the owning
// task id.
type ActionRef struct {
	Method string
	Arg    string
}

// ExecuteActionSet builds an action reference dispatched by action-set id.
func ExecuteActionSet(actionSetID string) ActionRef {
	return ActionRef{Method: MethodExecuteActionSet, Arg: actionSetID}
}

// FireTaskTrigger builds an action reference that re-fires the registered
// task through the host rather than embedding the action.
func FireTaskTrigger(taskID types.TaskID) ActionRef {
	return ActionRef{Method: MethodFireTaskTrigger, Arg: string(taskID)}
}

// Task is one registered rule. The trigger condition is the primary (and
// only compiling) condition; its assumption list and JSON projection are
// derived on every persistence cycle, never stored independently.
//
// A task loaded from a document whose assumptions did not decompile has a
// nil Condition and keeps the raw assumptions instead: it still
// participates in evaluation but is not editable as a domain condition.
type Task struct {
	ID      types.TaskID
	Name    string
	Enabled bool
	Action  ActionRef

	Condition condition.Condition

	// raw holds the persisted assumptions of an opaque task.
	raw []rules.Assumption
}

// Editable reports whether the task's condition was reified from its
// assumptions and can be edited as a domain condition.
func (t *Task) Editable() bool {
	return t.Condition != nil
}

// assumptions returns the task's assumption list: recompiled from the
// condition for editable tasks, the persisted form for opaque ones.
func (t *Task) assumptions() ([]rules.Assumption, error) {
	if t.Condition == nil {
		return t.raw, nil
	}
	return rules.Compile(t.Condition)
}

// description is the document projection of the task label: the name with
// the task id as fallback.
func (t *Task) description() string {
	if t.Name != "" {
		return t.Name
	}
	return string(t.ID)
}
