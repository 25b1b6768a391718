package skills

import (
	"context"
	"fmt"

	"github.com/meridianlabs/turnpike/executor"
	"github.com/meridianlabs/turnpike/runloop"
)

// Plugin exposes the loaded skills as a "skill" action: the model names a
// skill and receives its full content as feedback.
type Plugin struct {
	loader *Loader
}

// NewPlugin wraps a loader. The caller decides when to Reload.
func NewPlugin(loader *Loader) *Plugin {
	return &Plugin{loader: loader}
}

func (p *Plugin) Name() string {
	return "skill"
}

func (p *Plugin) Description() string {
	return "Read the full content of a named skill before applying it."
}

func (p *Plugin) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the skill to read.",
			},
		},
		"required":             []interface{}{"name"},
		"additionalProperties": false,
	}
}

func (p *Plugin) Execute(ctx context.Context, call *runloop.PluginCall, execOpts executor.Options, pluginOpts map[string]interface{}) runloop.Outcome {
	name, _ := call.Fields["name"].(string)
	if name == "" {
		return runloop.Errorf("skill action requires a name")
	}

	s, ok := p.loader.Get(name)
	if !ok {
		return runloop.Errorf("unknown skill %q", name)
	}
	return runloop.Output(s.Content)
}

func (p *Plugin) Summarize(call *runloop.PluginCall) string {
	if name, ok := call.Fields["name"].(string); ok {
		return fmt.Sprintf("read skill %s", name)
	}
	return "read skill"
}
