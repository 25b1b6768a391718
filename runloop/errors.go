package runloop

import "fmt"

// DuplicateDiscriminatorError reports two registry entries sharing a
// discriminator. Detected at registry build time, before any model call.
type DuplicateDiscriminatorError struct {
	Name string
}

func (e *DuplicateDiscriminatorError) Error() string {
	return fmt.Sprintf("duplicate action discriminator %q", e.Name)
}

// InvalidPluginSchemaError reports a plugin schema that cannot host the
// required discriminator field.
type InvalidPluginSchemaError struct {
	Plugin string
	Reason string
}

func (e *InvalidPluginSchemaError) Error() string {
	return fmt.Sprintf("plugin %q schema is invalid: %s", e.Plugin, e.Reason)
}

// MalformedActionError reports model output that is not valid action JSON or
// fails schema validation for a known discriminator. It is fatal to the run.
type MalformedActionError struct {
	Name  string
	Cause error
}

func (e *MalformedActionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("malformed %q action: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("malformed action: %v", e.Cause)
}

func (e *MalformedActionError) Unwrap() error {
	return e.Cause
}
