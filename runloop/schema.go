package runloop

import (
	"encoding/json"
	"fmt"

	invopop "github.com/invopop/jsonschema"
)

// reflectSchema derives a JSON-schema object for a built-in parameter struct.
func reflectSchema(v interface{}) (map[string]interface{}, error) {
	reflector := invopop.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(v)

	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, err
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m, nil
}

// copySchema deep-copies a schema document so registry mutations never leak
// into a plugin's own value.
func copySchema(m map[string]interface{}) (map[string]interface{}, error) {
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// checkPluginSchema rejects schemas that cannot host the discriminator.
func checkPluginSchema(name string, m map[string]interface{}) error {
	if m == nil {
		return &InvalidPluginSchemaError{Plugin: name, Reason: "schema is nil"}
	}
	if t, ok := m["type"]; ok {
		if s, ok := t.(string); !ok || s != "object" {
			return &InvalidPluginSchemaError{Plugin: name, Reason: fmt.Sprintf("schema type must be \"object\", got %v", t)}
		}
	}
	if props, ok := m["properties"].(map[string]interface{}); ok {
		if _, clash := props[DiscriminatorKey]; clash {
			return &InvalidPluginSchemaError{Plugin: name, Reason: fmt.Sprintf("schema defines reserved field %q", DiscriminatorKey)}
		}
	}
	return nil
}

// bindSchema finalizes a variant schema: it pins the discriminator to the
// registered name, allows the optional description field, and records the
// variant's one-line description for the model.
func bindSchema(m map[string]interface{}, name, description string) map[string]interface{} {
	props, ok := m["properties"].(map[string]interface{})
	if !ok {
		props = map[string]interface{}{}
		m["properties"] = props
	}
	props[DiscriminatorKey] = map[string]interface{}{"const": name}
	if _, ok := props["description"]; !ok {
		props["description"] = map[string]interface{}{
			"type":        "string",
			"description": "Optional one-line note shown in the action feedback",
		}
	}

	required := []interface{}{DiscriminatorKey}
	if existing, ok := m["required"].([]interface{}); ok {
		required = append(required, existing...)
	}
	m["required"] = required

	if m["type"] == nil {
		m["type"] = "object"
	}
	if description != "" && m["description"] == nil {
		m["description"] = description
	}
	return m
}

// combineSchemas builds the oneOf document handed to the model capability.
func combineSchemas(variants []map[string]interface{}) ([]byte, error) {
	doc := map[string]interface{}{"oneOf": variants}
	return json.Marshal(doc)
}
