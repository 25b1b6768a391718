package runloop

import "fmt"

// OutcomeKind discriminates normalized dispatch outcomes.
type OutcomeKind string

const (
	OutcomeOutput   OutcomeKind = "output"
	OutcomeNoOutput OutcomeKind = "no_output"
	OutcomeError    OutcomeKind = "error"
	OutcomeHalt     OutcomeKind = "halt"
)

// Outcome is the normalized result of dispatching one action. Execution
// errors are values here, not Go errors: they flow back into the
// conversation instead of aborting the run.
type Outcome struct {
	Kind     OutcomeKind            `json:"kind"`
	Output   string                 `json:"output,omitempty"`
	Reason   string                 `json:"reason,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Output wraps successful execution output. Empty text normalizes to a
// no-output success.
func Output(text string) Outcome {
	if text == "" {
		return NoOutput()
	}
	return Outcome{Kind: OutcomeOutput, Output: text}
}

// NoOutput is a success with nothing to show.
func NoOutput() Outcome {
	return Outcome{Kind: OutcomeNoOutput}
}

// Errorf builds a recoverable execution error outcome.
func Errorf(format string, args ...interface{}) Outcome {
	return Outcome{Kind: OutcomeError, Reason: fmt.Sprintf(format, args...)}
}

// ErrorOutcome wraps a Go error as a recoverable execution error.
func ErrorOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeError, Reason: err.Error()}
}

// Halt requests early, successful termination of the run.
func Halt(message string, metadata map[string]interface{}) Outcome {
	return Outcome{Kind: OutcomeHalt, Message: message, Metadata: metadata}
}
