package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridianlabs/turnpike/runloop"
)

// BuildInstructions produces the system prompt for a run: the action
// protocol, the registered actions, and the combined schema the response
// must validate against.
func BuildInstructions(docs []runloop.ActionDoc, schema json.RawMessage) string {
	var b strings.Builder

	b.WriteString("You are an autonomous agent completing a task by emitting one action per turn.\n\n")
	b.WriteString("Respond with exactly one JSON object and nothing else. ")
	b.WriteString(fmt.Sprintf("The object's %q field names the action; the remaining fields are that action's parameters. ", runloop.DiscriminatorKey))
	b.WriteString("An optional \"description\" field may summarize what the action is for.\n\n")
	b.WriteString("After each action you will receive its result as the next message. ")
	b.WriteString("Use the finish action once the task is complete.\n\n")

	b.WriteString("# Available actions\n\n")
	for _, d := range docs {
		b.WriteString(fmt.Sprintf("- %s: %s\n", d.Name, d.Description))
	}

	if len(schema) > 0 {
		b.WriteString("\n# Action schema\n\nEvery response must validate against this schema:\n\n")
		b.Write(schema)
		b.WriteString("\n")
	}

	return b.String()
}

// renderConversation flattens the structured conversation into the single
// prompt text the gollm layer expects.
func renderConversation(conv runloop.Conversation) string {
	var parts []string
	for _, msg := range conv {
		switch {
		case msg.Role == runloop.RoleAssistant && msg.Action != nil:
			raw, err := json.Marshal(msg.Action)
			if err != nil {
				continue
			}
			parts = append(parts, "[Assistant]: "+string(raw))
		case msg.Role == runloop.RoleAssistant:
			parts = append(parts, "[Assistant]: "+msg.Text)
		default:
			parts = append(parts, msg.Text)
		}
	}

	text := strings.Join(parts, "\n")
	if text == "" {
		text = "Begin."
	}
	return text
}
