package runloop

import (
	"context"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/meridianlabs/turnpike/executor"
)

// Dispatch routes a parsed action to its binding and normalizes the result
// into an Outcome. Panics inside built-ins or plugins are recovered here so
// a misbehaving handler degrades into an error outcome the model can react
// to instead of tearing down the run.
func (r *Registry) Dispatch(ctx context.Context, act *Action, exec executor.Executor, opts executor.Options, log zerolog.Logger) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("action", act.Label()).
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("action handler panicked")
			out = Errorf("action %s panicked: %v", act.Label(), rec)
		}
	}()

	b, ok := r.bindings[act.Label()]
	if !ok {
		return Errorf("unknown action %q", act.Label())
	}

	if b.plugin != nil {
		if act.Plugin == nil {
			return Errorf("action %s carries no plugin payload", act.Label())
		}
		return b.plugin.Execute(ctx, act.Plugin, opts, b.pluginOpts)
	}

	if exec == nil {
		return Errorf("no executor configured for action %s", act.Label())
	}
	return b.run(ctx, exec, opts, act)
}

// summaryFor picks the feedback header for an executed action: the model's
// own description wins, then a plugin's Summarize, then a per-kind default.
func (r *Registry) summaryFor(act *Action) string {
	if act.Description != "" {
		return act.Description
	}
	if b, ok := r.bindings[act.Label()]; ok && b.plugin != nil {
		if s, ok := b.plugin.(Summarizer); ok && act.Plugin != nil {
			if sum := s.Summarize(act.Plugin); sum != "" {
				return sum
			}
		}
	}
	return defaultSummary(act)
}
