package runloop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/meridianlabs/turnpike/executor"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusCompleted         Status = "completed"
	StatusHalted            Status = "halted"
	StatusTurnLimitExceeded Status = "turn_limit_exceeded"
	StatusFailed            Status = "failed"
)

// Result is the terminal outcome of a run.
type Result struct {
	RunID        string                 `json:"run_id"`
	Status       Status                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Turns        int                    `json:"turns"`
	Conversation Conversation           `json:"conversation"`

	// FailureReason is set only for StatusFailed.
	FailureReason string `json:"failure_reason,omitempty"`
}

// ChunkFunc observes streamed model fragments as they arrive.
type ChunkFunc func(chunk string, conv Conversation)

// ResponseFunc observes each parsed model action after it is appended to
// the conversation. turn is the round-trip count including this action.
type ResponseFunc func(act *Action, conv Conversation, turn int)

// Model is the language-model capability: given a conversation and the
// combined action schema, it returns one structured action as raw JSON.
// onChunk may be nil; when set, implementations that stream should call it
// per produced fragment.
type Model interface {
	Complete(ctx context.Context, conv Conversation, schema json.RawMessage, onChunk func(chunk string)) (json.RawMessage, error)
}

const (
	// DefaultMaxTurns bounds model round trips when Options.MaxTurns is zero.
	DefaultMaxTurns = 200

	// DefaultLoopWindow is the number of recent actions inspected for
	// repeating patterns.
	DefaultLoopWindow = 6
)

// Options configures a single run. The configuration is immutable for the
// run's duration.
type Options struct {
	// Model is the language-model capability. Required.
	Model Model

	// Executor handles built-in file and shell actions. Defaults to the
	// local executor.
	Executor executor.Executor

	// ExecOptions are forwarded to every executor and plugin call.
	ExecOptions executor.Options

	// Plugins extend the action set, in registration order.
	Plugins []PluginRegistration

	// MaxTurns bounds the number of model round trips. Zero means
	// DefaultMaxTurns.
	MaxTurns int

	// Seed is an initial conversation to resume from.
	Seed Conversation

	// OnChunk and OnResponse are optional observability callbacks. They
	// run synchronously on the loop's goroutine; a panicking callback is
	// logged and ignored, never surfaced as a run failure.
	OnChunk    ChunkFunc
	OnResponse ResponseFunc

	// Logger receives loop diagnostics. Nil disables logging.
	Logger *zerolog.Logger

	// DetectLoops enables the repeated-action warning: when the last
	// LoopWindow actions repeat with a short period, a steering message is
	// appended to the conversation.
	DetectLoops bool

	// LoopWindow overrides DefaultLoopWindow when positive.
	LoopWindow int

	// OutputLimits and LineLimits override the per-action feedback
	// truncation defaults, keyed by discriminator.
	OutputLimits map[string]int
	LineLimits   map[string]int
}

// Run drives the model through successive turns until it finishes the task,
// an action halts the run, the turn budget is exhausted, or the model fails.
//
// An error is returned only for configuration problems detected before the
// first model call (missing model, duplicate discriminators, invalid plugin
// schemas). Everything after that point is reported through Result.Status:
// model and parse failures as StatusFailed, execution errors as feedback the
// model sees on its next turn.
func Run(ctx context.Context, task string, opts Options) (*Result, error) {
	if opts.Model == nil {
		return nil, errors.New("runloop: model capability is required")
	}

	reg, err := NewRegistry(opts.Plugins)
	if err != nil {
		return nil, err
	}

	exec := opts.Executor
	if exec == nil {
		exec = executor.NewLocal()
	}

	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	conv := opts.Seed.Clone()
	if task != "" {
		conv = append(conv, UserMessage(task))
	}

	result := func(status Status) *Result {
		return &Result{RunID: runID, Status: status, Conversation: conv}
	}

	turn := 0
	for {
		if turn >= maxTurns {
			log.Info().Int("turns", turn).Msg("turn budget exhausted")
			r := result(StatusTurnLimitExceeded)
			r.Turns = turn
			return r, nil
		}

		raw, err := opts.Model.Complete(ctx, conv, reg.SchemaJSON(), func(chunk string) {
			emitChunk(log, opts.OnChunk, chunk, conv)
		})
		if err != nil {
			log.Error().Err(err).Int("turn", turn).Msg("model call failed")
			r := result(StatusFailed)
			r.Turns = turn
			r.FailureReason = err.Error()
			return r, nil
		}

		act, err := reg.Parse(raw)
		if err != nil {
			log.Error().Err(err).Int("turn", turn).Msg("model returned an invalid action")
			r := result(StatusFailed)
			r.Turns = turn
			r.FailureReason = err.Error()
			return r, nil
		}

		conv = append(conv, ActionMessage(act))
		turn++
		emitResponse(log, opts.OnResponse, act, conv, turn)
		log.Debug().Str("action", act.Label()).Int("turn", turn).Msg("dispatching action")

		if act.Terminal() {
			r := result(StatusCompleted)
			r.Turns = turn
			r.Message = act.Finish.Message
			return r, nil
		}

		out := reg.Dispatch(ctx, act, exec, opts.ExecOptions, log)
		if out.Kind == OutcomeHalt {
			log.Info().Str("action", act.Label()).Int("turn", turn).Msg("run halted by action")
			r := result(StatusHalted)
			r.Turns = turn
			r.Message = out.Message
			r.Metadata = out.Metadata
			return r, nil
		}

		conv = append(conv, UserMessage(reg.feedbackFor(act, out, opts.OutputLimits, opts.LineLimits)))

		if opts.DetectLoops {
			window := opts.LoopWindow
			if window <= 0 {
				window = DefaultLoopWindow
			}
			if DetectLoop(conv, window) {
				warning := fmt.Sprintf("Loop detected: the last %d actions follow a repeating pattern. Try a different approach.", window)
				conv = append(conv, UserMessage(warning))
				log.Warn().Int("window", window).Msg("repeating action pattern detected")
			}
		}
	}
}

// emitChunk invokes the chunk callback, absorbing panics so observability
// cannot abort the run.
func emitChunk(log zerolog.Logger, fn ChunkFunc, chunk string, conv Conversation) {
	if fn == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Interface("panic", rec).Msg("on_chunk callback panicked")
		}
	}()
	fn(chunk, conv)
}

// emitResponse invokes the response callback under the same isolation rule.
func emitResponse(log zerolog.Logger, fn ResponseFunc, act *Action, conv Conversation, turn int) {
	if fn == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn().Interface("panic", rec).Msg("on_response callback panicked")
		}
	}()
	fn(act, conv, turn)
}
