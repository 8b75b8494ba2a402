package chat

import "strings"

const DefaultHistoryWindow = 10

var systemPrompts = map[Intent]string{
	IntentGeneral: "You are a helpful legal assistant specializing in Indian law. Provide accurate, ethical, and helpful responses. " +
		"Cite relevant laws, sections, acts, and sources when possible. Format your response professionally with bullet points for steps and procedures. " +
		"If asked about a legal process or procedure, always provide a clear step-by-step roadmap. Your responses should be detailed, practical, and actionable.",
	IntentNotice: "You are a legal document assistant specializing in creating professional legal notices under Indian law. " +
		"Create a properly formatted legal notice based on the user's situation. Include all necessary components such as date, " +
		"sender details (use placeholder if not provided), recipient details (use placeholder if not provided), subject line, factual background, " +
		"legal basis with specific sections and acts, demand/request with timeline, consequences of non-compliance, closing, and signature placeholder. " +
		"Format it as a proper legal document. Use formal and precise language.",
	IntentRoadmap: "You are a legal process expert specializing in Indian law. Create a detailed procedural roadmap for the user's legal situation. " +
		"Your roadmap should include: 1) A timeline with estimated durations for each step, 2) Which authorities/courts to approach at each stage, " +
		"3) Required documents with formatting guidelines, 4) Applicable fees and costs, 5) Potential challenges and how to overcome them, " +
		"6) Alternative approaches if available, 7) Legal provisions that govern each step. Format your response as a clear, numbered roadmap with main steps and sub-steps.",
	IntentReferral: "You are a legal referral specialist. Based on the user's case details, provide appropriate lawyer referrals from your database. " +
		"Consider the case type, location, language needs, and complexity when making referrals. " +
		"Provide a brief explanation of why each lawyer would be suitable for this specific case. Always recommend consulting these lawyers for professional legal advice.",
}

// SystemPrompt returns the instruction block used for an intent
func SystemPrompt(intent Intent) string {
	if p, ok := systemPrompts[intent]; ok {
		return p
	}
	return systemPrompts[IntentGeneral]
}

// PromptOptions bounds the history that goes into a prompt
type PromptOptions struct {
	HistoryWindow int
	MaxTokens     int // 0 disables trimming
	Counter       TokenCounter
}

// BuildPrompt renders the system prompt, the tail of the history and the new
// input as a Human/Assistant transcript ending with "Assistant:".
// When a token budget is set, the oldest history lines are dropped until the
// prompt fits; the system prompt and the input are always kept.
func BuildPrompt(history []Message, input string, intent Intent, opts PromptOptions) string {
	window := opts.HistoryWindow
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		if msg.Sender == SenderUser {
			lines = append(lines, "Human: "+msg.Text+"\n")
		} else {
			lines = append(lines, "Assistant: "+msg.Text+"\n")
		}
	}

	head := SystemPrompt(intent) + "\n\n"
	tail := "Human: " + input + "\nAssistant:"

	render := func() string {
		var b strings.Builder
		b.WriteString(head)
		for _, l := range lines {
			b.WriteString(l)
		}
		b.WriteString(tail)
		return b.String()
	}

	prompt := render()
	if opts.MaxTokens <= 0 || opts.Counter == nil {
		return prompt
	}
	for len(lines) > 0 && opts.Counter.CountTokens(prompt) > opts.MaxTokens {
		lines = lines[1:]
		prompt = render()
	}
	return prompt
}
