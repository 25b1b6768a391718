package runloop

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// actionSignature computes a deterministic signature for an executed action
// (discriminator + hash of its wire form).
func actionSignature(act *Action) string {
	raw, err := json.Marshal(act)
	if err != nil {
		raw = []byte(act.Label())
	}
	h := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%x", act.Label(), h[:8])
}

// recentSignatures collects signatures from the most recent assistant
// actions in the conversation, in chronological order.
func recentSignatures(conv Conversation, count int) []string {
	var sigs []string
	for i := len(conv) - 1; i >= 0 && len(sigs) < count; i-- {
		msg := conv[i]
		if msg.Role == RoleAssistant && msg.Action != nil {
			sigs = append(sigs, actionSignature(msg.Action))
		}
	}
	for i, j := 0, len(sigs)-1; i < j; i, j = i+1, j-1 {
		sigs[i], sigs[j] = sigs[j], sigs[i]
	}
	return sigs
}

// DetectLoop reports whether the last windowSize actions follow a repeating
// pattern of length 1, 2, or 3.
func DetectLoop(conv Conversation, windowSize int) bool {
	sigs := recentSignatures(conv, windowSize)
	if len(sigs) < windowSize {
		return false
	}

	for patternLen := 1; patternLen <= 3; patternLen++ {
		if windowSize%patternLen != 0 {
			continue
		}
		pattern := sigs[:patternLen]
		allMatch := true
		for i := patternLen; i < windowSize && allMatch; i += patternLen {
			for j := 0; j < patternLen; j++ {
				if sigs[i+j] != pattern[j] {
					allMatch = false
					break
				}
			}
		}
		if allMatch {
			return true
		}
	}
	return false
}
