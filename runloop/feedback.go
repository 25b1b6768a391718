package runloop

import (
	"fmt"
	"strings"
)

// FormatFeedback renders one executed action into the user-role text fed
// back to the model on the next turn. The first line names the action and
// summarizes what it did; the body carries the outcome.
func FormatFeedback(label, summary string, out Outcome) string {
	var body string
	switch out.Kind {
	case OutcomeError:
		body = "[ERROR] " + out.Reason
	case OutcomeOutput:
		body = out.Output
	default:
		body = "OK"
	}

	header := fmt.Sprintf("[%s] %s", label, strings.TrimSpace(summary))
	return header + "\n" + body
}

// feedbackFor applies the per-action output limits and formats the result.
// charLimits and lineLimits override the defaults per discriminator.
func (r *Registry) feedbackFor(act *Action, out Outcome, charLimits, lineLimits map[string]int) string {
	if out.Kind == OutcomeOutput {
		out.Output = truncateForAction(act.Label(), out.Output, charLimits, lineLimits)
	}
	return FormatFeedback(act.Label(), r.summaryFor(act), out)
}
