// Package pipeline turns incoming domain events into rule evaluations and
// dispatches the actions of every rule that fires.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homectl/rulekeeper/internal/rules"
	"github.com/homectl/rulekeeper/internal/store"
	"github.com/homectl/rulekeeper/internal/types"
)

// Dispatcher is the action side-effect boundary. Both calls are
// fire-and-forget from the pipeline's perspective: errors are reported,
// never retried.
type Dispatcher interface {
	ExecuteActionSet(actionSetID string) error
	FireTaskTrigger(taskID types.TaskID) error
}

// Session is a stateless evaluation pass bound to one immutable rule-set
// snapshot. A session is opened per event context, executed once, and
// closed; closing is idempotent and must happen even when execution
// fails.
type Session struct {
	ruleSet    *store.RuleSet
	dispatcher Dispatcher
	recorder   Recorder // may be nil
	closed     bool
	log        zerolog.Logger
}

// NewSession opens a session over the given snapshot.
func NewSession(rs *store.RuleSet, d Dispatcher, log zerolog.Logger) *Session {
	return &Session{ruleSet: rs, dispatcher: d, log: log}
}

// Execute matches every enabled rule's assumption list against the
// context and dispatches the actions of each rule that fully matches.
// Returns the number of dispatched actions. Panics inside matching or
// dispatch are converted to errors.
func (s *Session) Execute(ctx rules.EventContext) (fired int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule evaluation panic: %v", r)
		}
	}()

	if s.closed {
		return 0, fmt.Errorf("session already closed")
	}

	for _, rule := range s.ruleSet.Rules {
		if !rule.Enabled {
			continue
		}
		if !rules.Match(rule.Assumptions, ctx) {
			continue
		}
		for _, action := range rule.Actions {
			if dispatchErr := s.dispatch(action); dispatchErr != nil {
				s.log.Error().Err(dispatchErr).
					Str("rule", rule.Name).
					Str("method", action.Method).
					Msg("action dispatch failed")
				continue
			}
			fired++
			if s.recorder != nil {
				if recErr := s.recorder.RecordDispatch(rule.Name, action.Method, action.Arg1); recErr != nil {
					s.log.Warn().Err(recErr).Str("rule", rule.Name).Msg("journal record failed")
				}
			}
		}
	}
	return fired, nil
}

// Close releases the session. Idempotent.
func (s *Session) Close() {
	s.closed = true
}

func (s *Session) dispatch(action store.ActionEntry) error {
	switch action.Method {
	case store.MethodExecuteActionSet:
		return s.dispatcher.ExecuteActionSet(action.Arg1)
	case store.MethodFireTaskTrigger:
		return s.dispatcher.FireTaskTrigger(types.TaskID(action.Arg1))
	default:
		return fmt.Errorf("unknown dispatch method %q", action.Method)
	}
}
