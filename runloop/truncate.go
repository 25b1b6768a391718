package runloop

import (
	"fmt"
	"strings"
)

// TruncationMode specifies how oversized output is trimmed.
type TruncationMode string

const (
	TruncateHeadTail TruncationMode = "head_tail"
	TruncateTail     TruncationMode = "tail"
)

// Default character limits per action.
var DefaultCharLimits = map[string]int{
	string(KindReadFile):  50000,
	string(KindShell):     30000,
	string(KindEditFile):  10000,
	string(KindWriteFile): 1000,
}

// Default truncation modes per action.
var defaultTruncationModes = map[string]TruncationMode{
	string(KindReadFile):  TruncateHeadTail,
	string(KindShell):     TruncateHeadTail,
	string(KindEditFile):  TruncateTail,
	string(KindWriteFile): TruncateTail,
}

// Default line limits per action, applied after character truncation.
var DefaultLineLimits = map[string]int{
	string(KindShell): 256,
}

const fallbackCharLimit = 30000

// TruncateOutput applies character-based truncation.
func TruncateOutput(output string, maxChars int, mode TruncationMode) string {
	if len(output) <= maxChars {
		return output
	}

	removed := len(output) - maxChars
	switch mode {
	case TruncateTail:
		return fmt.Sprintf("[WARNING: output was truncated. First %d characters were removed.]\n\n", removed) +
			output[len(output)-maxChars:]
	default:
		half := maxChars / 2
		return output[:half] +
			fmt.Sprintf("\n\n[WARNING: output was truncated. %d characters were removed from the middle. "+
				"Re-run the action with more targeted parameters if you need the missing part.]\n\n", removed) +
			output[len(output)-half:]
	}
}

// TruncateLines applies line-based truncation using a head/tail split.
func TruncateLines(output string, maxLines int) string {
	lines := strings.Split(output, "\n")
	if len(lines) <= maxLines {
		return output
	}

	headCount := maxLines / 2
	tailCount := maxLines - headCount
	omitted := len(lines) - headCount - tailCount

	return strings.Join(lines[:headCount], "\n") +
		fmt.Sprintf("\n[... %d lines omitted ...]\n", omitted) +
		strings.Join(lines[len(lines)-tailCount:], "\n")
}

// truncateForAction runs the full pipeline for one action's output:
// character truncation first, then line truncation where a limit exists.
// charLimits and lineLimits are per-run overrides and may be nil.
func truncateForAction(name, output string, charLimits, lineLimits map[string]int) string {
	maxChars, ok := charLimits[name]
	if !ok {
		maxChars, ok = DefaultCharLimits[name]
		if !ok {
			maxChars = fallbackCharLimit
		}
	}
	mode, ok := defaultTruncationModes[name]
	if !ok {
		mode = TruncateHeadTail
	}
	result := TruncateOutput(output, maxChars, mode)

	maxLines, ok := lineLimits[name]
	if !ok {
		maxLines = DefaultLineLimits[name]
	}
	if maxLines > 0 {
		result = TruncateLines(result, maxLines)
	}
	return result
}
