package runloop

import (
	"context"

	"github.com/meridianlabs/turnpike/executor"
)

// Plugin adds a new action type to a run without modifying the core loop.
// Plugins are pure value bundles: all per-run state arrives through the
// options passed to Execute.
type Plugin interface {
	// Name is the unique discriminator for the plugin's action.
	Name() string

	// Description is a one-line summary injected into the model's
	// instructions via the combined schema.
	Description() string

	// Schema describes the action's fields as a JSON-schema object. The
	// registry injects the discriminator field; the schema must not define
	// it itself.
	Schema() map[string]interface{}

	// Execute runs the action. execOpts are the run's shared executor
	// options; pluginOpts are the per-run options this plugin was
	// registered with.
	Execute(ctx context.Context, call *PluginCall, execOpts executor.Options, pluginOpts map[string]interface{}) Outcome
}

// Summarizer is optionally implemented by plugins that want a custom
// feedback summary line.
type Summarizer interface {
	Summarize(call *PluginCall) string
}

// Halter is optionally implemented by plugins to declare that their
// execution may request early termination of the run.
type Halter interface {
	CanHalt() bool
}

// PluginRegistration pairs a plugin with its per-run options.
type PluginRegistration struct {
	Plugin  Plugin
	Options map[string]interface{}
}

// UsePlugin registers a plugin with no per-run options.
func UsePlugin(p Plugin) PluginRegistration {
	return PluginRegistration{Plugin: p}
}

// UsePluginWithOptions registers a plugin with per-run options that are
// passed to every Execute call.
func UsePluginWithOptions(p Plugin, opts map[string]interface{}) PluginRegistration {
	return PluginRegistration{Plugin: p, Options: opts}
}
