package runloop

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/meridianlabs/turnpike/executor"
)

// namedPlugin is a configurable test plugin.
type namedPlugin struct {
	name   string
	schema map[string]interface{}
}

func (p namedPlugin) Name() string        { return p.name }
func (p namedPlugin) Description() string { return "test plugin" }
func (p namedPlugin) Schema() map[string]interface{} {
	return p.schema
}
func (p namedPlugin) Execute(ctx context.Context, call *PluginCall, execOpts executor.Options, pluginOpts map[string]interface{}) Outcome {
	return NoOutput()
}

func objectSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}

func TestNewRegistryBuiltins(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	docs := reg.Docs()
	expected := []string{"read_file", "write_file", "edit_file", "shell", "finish"}
	if len(docs) != len(expected) {
		t.Fatalf("expected %d docs, got %d", len(expected), len(docs))
	}
	for i, want := range expected {
		if docs[i].Name != want {
			t.Errorf("docs[%d] = %q, want %q", i, docs[i].Name, want)
		}
		if docs[i].Description == "" {
			t.Errorf("action %s has no description", want)
		}
	}
	if !docs[4].CanHalt {
		t.Error("finish must be marked as halting")
	}
}

func TestNewRegistryDuplicateBuiltinName(t *testing.T) {
	shadow := namedPlugin{name: "shell", schema: objectSchema()}
	_, err := NewRegistry([]PluginRegistration{UsePlugin(shadow)})
	var dup *DuplicateDiscriminatorError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDiscriminatorError, got %v", err)
	}
	if dup.Name != "shell" {
		t.Errorf("expected duplicate name shell, got %q", dup.Name)
	}
}

func TestNewRegistryInvalidPluginSchemas(t *testing.T) {
	cases := []struct {
		name   string
		schema map[string]interface{}
	}{
		{"nil schema", nil},
		{"non-object", map[string]interface{}{"type": "string"}},
		{"claims discriminator", map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				DiscriminatorKey: map[string]interface{}{"type": "string"},
			},
		}},
	}

	for _, tc := range cases {
		p := namedPlugin{name: "bad", schema: tc.schema}
		_, err := NewRegistry([]PluginRegistration{UsePlugin(p)})
		var invalid *InvalidPluginSchemaError
		if !errors.As(err, &invalid) {
			t.Errorf("%s: expected InvalidPluginSchemaError, got %v", tc.name, err)
		}
	}
}

func TestRegistrySchemaJSONShape(t *testing.T) {
	reg, err := NewRegistry([]PluginRegistration{
		UsePlugin(namedPlugin{name: "custom", schema: objectSchema()}),
	})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(reg.SchemaJSON(), &doc); err != nil {
		t.Fatalf("combined schema is not JSON: %v", err)
	}
	variants, ok := doc["oneOf"].([]interface{})
	if !ok {
		t.Fatalf("expected oneOf at top level, got %v", doc)
	}
	if len(variants) != 6 {
		t.Errorf("expected 6 variants (5 builtins + 1 plugin), got %d", len(variants))
	}

	if !strings.Contains(string(reg.SchemaJSON()), `"custom"`) {
		t.Error("plugin discriminator missing from combined schema")
	}
}

func TestRegistryParseValidatesKnownActions(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	act, err := reg.Parse(json.RawMessage(`{"action":"read_file","path":"a.txt"}`))
	if err != nil {
		t.Fatalf("valid action rejected: %v", err)
	}
	if act.Kind != KindReadFile || act.ReadFile.Path != "a.txt" {
		t.Errorf("parsed action wrong: %+v", act)
	}

	_, err = reg.Parse(json.RawMessage(`{"action":"read_file"}`))
	var malformed *MalformedActionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedActionError for missing path, got %v", err)
	}
}

func TestRegistryParseUnknownDiscriminatorIsLenient(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	act, err := reg.Parse(json.RawMessage(`{"action":"mystery","x":1}`))
	if err != nil {
		t.Fatalf("unknown discriminator must parse leniently: %v", err)
	}
	if act.Kind != KindPlugin || act.Label() != "mystery" {
		t.Errorf("expected plugin action mystery, got %+v", act)
	}
}

func TestRegistryParsePluginActionValidated(t *testing.T) {
	reg, err := NewRegistry([]PluginRegistration{
		UsePlugin(namedPlugin{name: "custom", schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"target": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"target"},
		}}),
	})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if _, err := reg.Parse(json.RawMessage(`{"action":"custom","target":"x"}`)); err != nil {
		t.Errorf("valid plugin action rejected: %v", err)
	}

	_, err = reg.Parse(json.RawMessage(`{"action":"custom"}`))
	var malformed *MalformedActionError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedActionError for missing target, got %v", err)
	}
}
