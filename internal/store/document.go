// Package store owns the in-memory task set, its persisted document form,
// and the active rule-set snapshot the evaluation pipeline reads.
package store

import (
	"github.com/homectl/rulekeeper/internal/rules"
)

// Document header values. Kept stable for compatibility with documents
// written by earlier hub versions.
const (
	DocumentName        = "Hobson Rules"
	DocumentDescription = "Hobson Rules"
)

// Dispatch methods recorded in a rule's action entries.
const (
	MethodExecuteActionSet = "executeActionSet"
	MethodFireTaskTrigger  = "fireTaskTrigger"
)

// ActionEntry is the persisted projection of a rule action.
type ActionEntry struct {
	Method string `json:"method"`
	Arg1   string `json:"arg1"`
}

// RuleEntry is the persisted projection of one task: the task id as the
// rule name, the task name (or id fallback) as the description, and the
// assumptions recompiled from the task's condition.
type RuleEntry struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Enabled     bool               `json:"enabled"`
	Assumptions []rules.Assumption `json:"assumptions"`
	Actions     []ActionEntry      `json:"actions"`
}

// RuleDocument is the single authoritative persisted form of the rule set.
// A store with no tasks omits the rules key entirely rather than writing
// an empty array; the distinction is the "empty document" check on first
// load.
type RuleDocument struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Rules       []RuleEntry `json:"rules,omitempty"`
}
