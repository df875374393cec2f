package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/homectl/rulekeeper/internal/rules"
	"github.com/homectl/rulekeeper/internal/store"
	"github.com/homectl/rulekeeper/internal/types"
)

// RuleSetSource provides the active rule-set snapshot. Implemented by
// *store.Store.
type RuleSetSource interface {
	ActiveRuleSet() *store.RuleSet
}

// Recorder journals processed events and dispatched actions. Optional;
// recording failures are logged and never affect evaluation.
type Recorder interface {
	RecordEvent(eventID string) error
	RecordDispatch(ruleName, method, arg string) error
}

// Pipeline evaluates incoming events against the active rule set.
// ProcessEvent may run concurrently with mutations and with other
// ProcessEvent calls; each sub-context evaluation binds to whatever
// snapshot is active when its session opens.
type Pipeline struct {
	source     RuleSetSource
	dispatcher Dispatcher
	recorder   Recorder // may be nil
	log        zerolog.Logger
}

// New creates a pipeline. recorder may be nil to disable journaling.
func New(source RuleSetSource, dispatcher Dispatcher, recorder Recorder, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		source:     source,
		dispatcher: dispatcher,
		recorder:   recorder,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// ProcessEvent evaluates one domain event. Unsupported event kinds are a
// no-op. Evaluation failures are terminal at this boundary: they are
// logged and never propagated to the caller.
func (p *Pipeline) ProcessEvent(event types.Event) {
	contexts := rules.BuildContexts(event)
	if len(contexts) == 0 {
		return
	}

	if p.recorder != nil {
		if err := p.recorder.RecordEvent(event.EventID()); err != nil {
			p.log.Warn().Err(err).Msg("journal record failed")
		}
	}

	for _, ctx := range contexts {
		p.evaluate(ctx)
	}
}

// evaluate runs one context through a fresh stateless session. The
// session is always closed, including on failure.
func (p *Pipeline) evaluate(ctx rules.EventContext) {
	session := NewSession(p.source.ActiveRuleSet(), p.dispatcher, p.log)
	session.recorder = p.recorder
	defer session.Close()

	fired, err := session.Execute(ctx)
	if err != nil {
		p.log.Error().Err(err).Str("eventId", ctx.EventID).Msg("rule evaluation failed")
		return
	}
	if fired > 0 {
		p.log.Debug().Str("eventId", ctx.EventID).Int("dispatched", fired).Msg("rules fired")
	}
}
