package runloop

import "testing"

func actionsConversation(actions ...*Action) Conversation {
	var conv Conversation
	for _, a := range actions {
		conv = append(conv, ActionMessage(a))
		conv = append(conv, UserMessage("feedback"))
	}
	return conv
}

func TestDetectLoopSingleAction(t *testing.T) {
	conv := actionsConversation(
		NewShell("ls"), NewShell("ls"), NewShell("ls"),
		NewShell("ls"), NewShell("ls"), NewShell("ls"),
	)
	if !DetectLoop(conv, 6) {
		t.Error("period-1 loop not detected")
	}
}

func TestDetectLoopPairPattern(t *testing.T) {
	conv := actionsConversation(
		NewShell("ls"), NewReadFile("a.txt"),
		NewShell("ls"), NewReadFile("a.txt"),
		NewShell("ls"), NewReadFile("a.txt"),
	)
	if !DetectLoop(conv, 6) {
		t.Error("period-2 loop not detected")
	}
}

func TestDetectLoopTriplePattern(t *testing.T) {
	conv := actionsConversation(
		NewShell("ls"), NewReadFile("a.txt"), NewShell("pwd"),
		NewShell("ls"), NewReadFile("a.txt"), NewShell("pwd"),
	)
	if !DetectLoop(conv, 6) {
		t.Error("period-3 loop not detected")
	}
}

func TestDetectLoopNoRepetition(t *testing.T) {
	conv := actionsConversation(
		NewShell("ls"), NewReadFile("a.txt"), NewShell("pwd"),
		NewReadFile("b.txt"), NewShell("whoami"), NewShell("date"),
	)
	if DetectLoop(conv, 6) {
		t.Error("false positive on distinct actions")
	}
}

func TestDetectLoopDifferentArgumentsAreDifferentActions(t *testing.T) {
	conv := actionsConversation(
		NewReadFile("1.txt"), NewReadFile("2.txt"), NewReadFile("3.txt"),
		NewReadFile("4.txt"), NewReadFile("5.txt"), NewReadFile("6.txt"),
	)
	if DetectLoop(conv, 6) {
		t.Error("same action with different arguments is not a loop")
	}
}

func TestDetectLoopInsufficientHistory(t *testing.T) {
	conv := actionsConversation(NewShell("ls"), NewShell("ls"))
	if DetectLoop(conv, 6) {
		t.Error("short history must not trigger detection")
	}
}
