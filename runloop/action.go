package runloop

import (
	"encoding/json"
	"fmt"
)

// DiscriminatorKey is the fixed JSON key identifying an action's type. It is
// shared by built-ins and every plugin registered in the same run.
const DiscriminatorKey = "action"

// Kind discriminates the built-in action variants.
type Kind string

const (
	KindReadFile  Kind = "read_file"
	KindWriteFile Kind = "write_file"
	KindEditFile  Kind = "edit_file"
	KindShell     Kind = "shell"
	KindFinish    Kind = "finish"

	// KindPlugin wraps any action whose discriminator was supplied by a
	// plugin (or is unknown to the registry).
	KindPlugin Kind = "plugin"
)

// ReadFileParams asks for the content of a file.
type ReadFileParams struct {
	Path string `json:"path" jsonschema:"description=Path of the file to read"`
}

// WriteFileParams replaces a file's content.
type WriteFileParams struct {
	Path    string `json:"path" jsonschema:"description=Path of the file to write"`
	Content string `json:"content" jsonschema:"description=Full file content"`
}

// EditFileParams replaces the first occurrence of OldString with NewString.
type EditFileParams struct {
	Path      string `json:"path" jsonschema:"description=Path of the file to edit"`
	OldString string `json:"old_string" jsonschema:"description=Exact text to find"`
	NewString string `json:"new_string" jsonschema:"description=Replacement text"`
}

// ShellParams runs a shell command.
type ShellParams struct {
	Command string `json:"command" jsonschema:"description=The command to run"`
}

// FinishParams ends the run successfully.
type FinishParams struct {
	Message string `json:"message" jsonschema:"description=Final answer or completion summary"`
}

// PluginCall carries a plugin-defined action: the discriminator, the decoded
// fields, and the raw wire form.
type PluginCall struct {
	Name   string                 `json:"name"`
	Fields map[string]interface{} `json:"fields,omitempty"`
	Raw    json.RawMessage        `json:"raw,omitempty"`
}

// Action is the tagged union of everything the model can emit. Exactly one
// variant pointer is set, matching Kind. Description is optional and is used
// only in the feedback line shown back to the model.
type Action struct {
	Kind        Kind
	Description string

	ReadFile  *ReadFileParams
	WriteFile *WriteFileParams
	EditFile  *EditFileParams
	Shell     *ShellParams
	Finish    *FinishParams
	Plugin    *PluginCall
}

// Label returns the action's discriminator string.
func (a *Action) Label() string {
	if a.Kind == KindPlugin {
		if a.Plugin != nil {
			return a.Plugin.Name
		}
		return string(KindPlugin)
	}
	return string(a.Kind)
}

// Terminal reports whether the action ends the run.
func (a *Action) Terminal() bool {
	return a.Kind == KindFinish
}

// Constructors used by tests and callers seeding conversations.

// NewReadFile creates a read_file action.
func NewReadFile(path string) *Action {
	return &Action{Kind: KindReadFile, ReadFile: &ReadFileParams{Path: path}}
}

// NewWriteFile creates a write_file action.
func NewWriteFile(path, content string) *Action {
	return &Action{Kind: KindWriteFile, WriteFile: &WriteFileParams{Path: path, Content: content}}
}

// NewEditFile creates an edit_file action.
func NewEditFile(path, oldStr, newStr string) *Action {
	return &Action{Kind: KindEditFile, EditFile: &EditFileParams{Path: path, OldString: oldStr, NewString: newStr}}
}

// NewShell creates a shell action.
func NewShell(command string) *Action {
	return &Action{Kind: KindShell, Shell: &ShellParams{Command: command}}
}

// NewFinish creates the terminal finish action.
func NewFinish(message string) *Action {
	return &Action{Kind: KindFinish, Finish: &FinishParams{Message: message}}
}

// MarshalJSON renders the action in its wire shape: a single object with the
// discriminator under DiscriminatorKey and all variant fields inline.
func (a *Action) MarshalJSON() ([]byte, error) {
	if a.Kind == KindPlugin {
		if a.Plugin == nil {
			return nil, fmt.Errorf("plugin action has no payload")
		}
		if len(a.Plugin.Raw) > 0 {
			return a.Plugin.Raw, nil
		}
		m := make(map[string]interface{}, len(a.Plugin.Fields)+2)
		for k, v := range a.Plugin.Fields {
			m[k] = v
		}
		m[DiscriminatorKey] = a.Plugin.Name
		if a.Description != "" {
			m["description"] = a.Description
		}
		return json.Marshal(m)
	}

	var params interface{}
	switch a.Kind {
	case KindReadFile:
		params = a.ReadFile
	case KindWriteFile:
		params = a.WriteFile
	case KindEditFile:
		params = a.EditFile
	case KindShell:
		params = a.Shell
	case KindFinish:
		params = a.Finish
	default:
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if params == nil {
		return nil, fmt.Errorf("action %q has no parameters", a.Kind)
	}

	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, err
	}
	m[DiscriminatorKey] = string(a.Kind)
	if a.Description != "" {
		m["description"] = a.Description
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the wire shape. Discriminators that are not built-in
// action names decode as plugin calls; the registry decides at dispatch time
// whether they are bound.
func (a *Action) UnmarshalJSON(data []byte) error {
	decoded, err := decodeAction(data)
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

// decodeAction turns raw wire JSON into a typed Action. Validation against
// the registered schemas happens separately in Registry.Parse.
func decodeAction(raw json.RawMessage) (*Action, error) {
	var head struct {
		Name        string `json:"action"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, &MalformedActionError{Cause: err}
	}
	if head.Name == "" {
		return nil, &MalformedActionError{Cause: fmt.Errorf("missing %q field", DiscriminatorKey)}
	}

	act := &Action{Description: head.Description}
	switch Kind(head.Name) {
	case KindReadFile:
		act.Kind = KindReadFile
		act.ReadFile = &ReadFileParams{}
		if err := json.Unmarshal(raw, act.ReadFile); err != nil {
			return nil, &MalformedActionError{Name: head.Name, Cause: err}
		}
	case KindWriteFile:
		act.Kind = KindWriteFile
		act.WriteFile = &WriteFileParams{}
		if err := json.Unmarshal(raw, act.WriteFile); err != nil {
			return nil, &MalformedActionError{Name: head.Name, Cause: err}
		}
	case KindEditFile:
		act.Kind = KindEditFile
		act.EditFile = &EditFileParams{}
		if err := json.Unmarshal(raw, act.EditFile); err != nil {
			return nil, &MalformedActionError{Name: head.Name, Cause: err}
		}
	case KindShell:
		act.Kind = KindShell
		act.Shell = &ShellParams{}
		if err := json.Unmarshal(raw, act.Shell); err != nil {
			return nil, &MalformedActionError{Name: head.Name, Cause: err}
		}
	case KindFinish:
		act.Kind = KindFinish
		act.Finish = &FinishParams{}
		if err := json.Unmarshal(raw, act.Finish); err != nil {
			return nil, &MalformedActionError{Name: head.Name, Cause: err}
		}
	default:
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, &MalformedActionError{Name: head.Name, Cause: err}
		}
		delete(fields, DiscriminatorKey)
		delete(fields, "description")
		act.Kind = KindPlugin
		act.Plugin = &PluginCall{Name: head.Name, Fields: fields, Raw: append(json.RawMessage(nil), raw...)}
	}
	return act, nil
}
