package runloop

import (
	"context"
	"fmt"

	"github.com/meridianlabs/turnpike/executor"
)

// builtinFunc executes one built-in action against the host executor.
type builtinFunc func(ctx context.Context, exec executor.Executor, opts executor.Options, act *Action) Outcome

type builtinSpec struct {
	name        string
	description string
	params      interface{}
	run         builtinFunc
}

// builtins lists the core actions in the order they appear in the combined
// schema and in the prompt. The order is stable so prompts do not churn
// between runs.
func builtins() []builtinSpec {
	return []builtinSpec{
		{
			name:        string(KindReadFile),
			description: "Read the contents of a file at the given path.",
			params:      ReadFileParams{},
			run:         runReadFile,
		},
		{
			name:        string(KindWriteFile),
			description: "Create or overwrite a file with the given content.",
			params:      WriteFileParams{},
			run:         runWriteFile,
		},
		{
			name:        string(KindEditFile),
			description: "Replace the first occurrence of old_string with new_string in a file.",
			params:      EditFileParams{},
			run:         runEditFile,
		},
		{
			name:        string(KindShell),
			description: "Run a shell command in the working directory and return its combined output.",
			params:      ShellParams{},
			run:         runShell,
		},
		{
			name:        string(KindFinish),
			description: "End the run. Use this once the task is complete, with a closing message.",
			params:      FinishParams{},
			run:         runFinish,
		},
	}
}

func runReadFile(ctx context.Context, exec executor.Executor, opts executor.Options, act *Action) Outcome {
	content, err := exec.ReadFile(ctx, act.ReadFile.Path, opts)
	if err != nil {
		return ErrorOutcome(err)
	}
	return Output(content)
}

func runWriteFile(ctx context.Context, exec executor.Executor, opts executor.Options, act *Action) Outcome {
	if err := exec.WriteFile(ctx, act.WriteFile.Path, act.WriteFile.Content, opts); err != nil {
		return ErrorOutcome(err)
	}
	return NoOutput()
}

func runEditFile(ctx context.Context, exec executor.Executor, opts executor.Options, act *Action) Outcome {
	if err := exec.EditFile(ctx, act.EditFile.Path, act.EditFile.OldString, act.EditFile.NewString, opts); err != nil {
		return ErrorOutcome(err)
	}
	return NoOutput()
}

func runShell(ctx context.Context, exec executor.Executor, opts executor.Options, act *Action) Outcome {
	out, err := exec.Exec(ctx, act.Shell.Command, opts)
	if err != nil {
		return ErrorOutcome(err)
	}
	return Output(out)
}

func runFinish(ctx context.Context, exec executor.Executor, opts executor.Options, act *Action) Outcome {
	return Halt(act.Finish.Message, nil)
}

// defaultSummary produces the feedback header line for an action that
// carries no description and no plugin summarizer.
func defaultSummary(act *Action) string {
	switch act.Kind {
	case KindReadFile:
		return act.ReadFile.Path
	case KindWriteFile:
		return act.WriteFile.Path
	case KindEditFile:
		return act.EditFile.Path
	case KindShell:
		return act.Shell.Command
	case KindFinish:
		return act.Finish.Message
	default:
		return fmt.Sprintf("%s action", act.Label())
	}
}
