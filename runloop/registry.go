package runloop

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ActionDoc summarizes one registered action for prompt construction.
type ActionDoc struct {
	Name        string
	Description string
	CanHalt     bool
}

// binding routes a discriminator to its execution target: a built-in
// function, or a plugin paired with its per-run options.
type binding struct {
	run        builtinFunc
	plugin     Plugin
	pluginOpts map[string]interface{}
}

// Registry holds the recognized action shapes for a run and the lookup from
// discriminator to execution binding. Construction is pure; a Registry is
// immutable afterwards.
type Registry struct {
	bindings   map[string]binding
	validators map[string]*jsonschema.Schema
	schemaDoc  []byte
	docs       []ActionDoc
}

// NewRegistry combines the built-in actions with the given plugins. It fails
// with DuplicateDiscriminatorError when two entries share a discriminator
// and InvalidPluginSchemaError when a plugin schema cannot host the
// discriminator field.
func NewRegistry(plugins []PluginRegistration) (*Registry, error) {
	r := &Registry{
		bindings:   make(map[string]binding),
		validators: make(map[string]*jsonschema.Schema),
	}

	var variants []map[string]interface{}

	for _, b := range builtins() {
		schema, err := reflectSchema(b.params)
		if err != nil {
			return nil, fmt.Errorf("reflect %s schema: %w", b.name, err)
		}
		schema = bindSchema(schema, b.name, b.description)
		if err := r.add(b.name, binding{run: b.run}, schema, ActionDoc{Name: b.name, Description: b.description, CanHalt: b.name == string(KindFinish)}); err != nil {
			return nil, err
		}
		variants = append(variants, schema)
	}

	for _, reg := range plugins {
		p := reg.Plugin
		if p == nil {
			return nil, fmt.Errorf("nil plugin registration")
		}
		name := p.Name()
		if name == "" {
			return nil, &InvalidPluginSchemaError{Plugin: name, Reason: "plugin name is empty"}
		}
		raw := p.Schema()
		if err := checkPluginSchema(name, raw); err != nil {
			return nil, err
		}
		schema, err := copySchema(raw)
		if err != nil {
			return nil, &InvalidPluginSchemaError{Plugin: name, Reason: err.Error()}
		}
		schema = bindSchema(schema, name, p.Description())
		doc := ActionDoc{Name: name, Description: p.Description()}
		if h, ok := p.(Halter); ok {
			doc.CanHalt = h.CanHalt()
		}
		if err := r.add(name, binding{plugin: p, pluginOpts: reg.Options}, schema, doc); err != nil {
			return nil, err
		}
		variants = append(variants, schema)
	}

	combined, err := combineSchemas(variants)
	if err != nil {
		return nil, err
	}
	r.schemaDoc = combined
	return r, nil
}

func (r *Registry) add(name string, b binding, schema map[string]interface{}, doc ActionDoc) error {
	if _, exists := r.bindings[name]; exists {
		return &DuplicateDiscriminatorError{Name: name}
	}

	encoded, err := json.Marshal(schema)
	if err != nil {
		return err
	}
	validator, err := jsonschema.CompileString(name+".schema.json", string(encoded))
	if err != nil {
		if b.plugin != nil {
			return &InvalidPluginSchemaError{Plugin: name, Reason: err.Error()}
		}
		return fmt.Errorf("compile %s schema: %w", name, err)
	}

	r.bindings[name] = b
	r.validators[name] = validator
	r.docs = append(r.docs, doc)
	return nil
}

// SchemaJSON returns the combined oneOf schema document describing every
// recognized action shape. The model capability receives this per call.
func (r *Registry) SchemaJSON() json.RawMessage {
	return r.schemaDoc
}

// Docs lists the registered actions in registration order (built-ins first).
func (r *Registry) Docs() []ActionDoc {
	out := make([]ActionDoc, len(r.docs))
	copy(out, r.docs)
	return out
}

// Parse validates and decodes one raw action returned by the model. A known
// discriminator is validated against its registered schema; a validation
// failure is a MalformedActionError and fatal to the run. An unknown
// discriminator decodes as a plugin call and is rejected later at dispatch,
// where the model can see the error and self-correct.
func (r *Registry) Parse(raw json.RawMessage) (*Action, error) {
	act, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}

	validator, known := r.validators[act.Label()]
	if !known {
		return act, nil
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedActionError{Name: act.Label(), Cause: err}
	}
	if err := validator.Validate(doc); err != nil {
		return nil, &MalformedActionError{Name: act.Label(), Cause: err}
	}
	return act, nil
}
