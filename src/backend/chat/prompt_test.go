package chat

import (
	"fmt"
	"strings"
	"testing"
)

func history(n int) []Message {
	msgs := make([]Message, n)
	for i := range msgs {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderBot
		}
		msgs[i] = Message{Text: fmt.Sprintf("m%d", i), Sender: sender}
	}
	return msgs
}

func TestBuildPrompt_Format(t *testing.T) {
	msgs := []Message{
		{Text: InitialGreeting, Sender: SenderBot},
		{Text: "What is bail?", Sender: SenderUser},
		{Text: "Bail is temporary release.", Sender: SenderBot},
	}

	got := BuildPrompt(msgs, "Is it a right?", IntentGeneral, PromptOptions{})
	want := SystemPrompt(IntentGeneral) + "\n\n" +
		"Assistant: " + InitialGreeting + "\n" +
		"Human: What is bail?\n" +
		"Assistant: Bail is temporary release.\n" +
		"Human: Is it a right?\nAssistant:"

	if got != want {
		t.Errorf("BuildPrompt mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestBuildPrompt_SystemPromptPerIntent(t *testing.T) {
	for _, intent := range []Intent{IntentGeneral, IntentNotice, IntentRoadmap, IntentReferral} {
		got := BuildPrompt(nil, "x", intent, PromptOptions{})
		if !strings.HasPrefix(got, SystemPrompt(intent)+"\n\n") {
			t.Errorf("prompt for %s does not start with its system prompt", intent)
		}
	}
	if SystemPrompt(IntentNotice) == SystemPrompt(IntentRoadmap) {
		t.Error("notice and roadmap prompts should differ")
	}
	if SystemPrompt("unknown") != SystemPrompt(IntentGeneral) {
		t.Error("unknown intent should fall back to the general prompt")
	}
}

func TestBuildPrompt_HistoryWindow(t *testing.T) {
	got := BuildPrompt(history(15), "next", IntentGeneral, PromptOptions{})
	if strings.Contains(got, ": m4\n") {
		t.Error("expected messages older than the last 10 to be dropped")
	}
	if !strings.Contains(got, "Assistant: m5\n") || !strings.Contains(got, "Human: m14\n") {
		t.Errorf("expected the last 10 messages, got %q", got)
	}

	got = BuildPrompt(history(15), "next", IntentGeneral, PromptOptions{HistoryWindow: 2})
	if strings.Contains(got, ": m12\n") || !strings.Contains(got, "Assistant: m13\n") {
		t.Errorf("expected a window of 2, got %q", got)
	}
}

func TestBuildPrompt_TokenBudget(t *testing.T) {
	counter := WhitespaceCounter{}
	systemOnly := BuildPrompt(nil, "final question", IntentGeneral, PromptOptions{})
	budget := counter.CountTokens(systemOnly) + 4

	got := BuildPrompt(history(10), "final question", IntentGeneral, PromptOptions{
		MaxTokens: budget,
		Counter:   counter,
	})

	if counter.CountTokens(got) > budget {
		t.Errorf("prompt exceeds budget: %d > %d", counter.CountTokens(got), budget)
	}
	if !strings.Contains(got, "Assistant: m9\n") {
		t.Errorf("expected the newest history line to survive, got %q", got)
	}
	if strings.Contains(got, ": m0\n") {
		t.Error("expected the oldest history line to be dropped")
	}
	if !strings.HasSuffix(got, "Human: final question\nAssistant:") {
		t.Error("input must never be dropped")
	}

	tiny := BuildPrompt(history(4), "final question", IntentGeneral, PromptOptions{MaxTokens: 1, Counter: counter})
	if tiny != systemOnly {
		t.Errorf("expected only system prompt and input under a tiny budget, got %q", tiny)
	}
}

func TestWhitespaceCounter(t *testing.T) {
	if n := (WhitespaceCounter{}).CountTokens("  Human: hello\nthere  "); n != 3 {
		t.Errorf("expected 3 tokens, got %d", n)
	}
}

func TestNewTokenCounterDefault(t *testing.T) {
	counter, err := NewTokenCounter("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.CountTokens("a b") != 2 {
		t.Error("expected whitespace counting")
	}
}
