package chat

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hannes/kanoon/src/backend/config"
	"github.com/hannes/kanoon/src/backend/processor"
	"github.com/hannes/kanoon/src/backend/providers"
	"github.com/hannes/kanoon/src/backend/redact"
	"github.com/hannes/kanoon/src/backend/storage"
	"go.uber.org/zap"
)

// FallbackReply is shown whenever the text-generation call fails
const FallbackReply = "I'm sorry, I encountered an error while processing your request. Please try again later."

var ErrEmptyMessage = errors.New("message is empty")

// ResponseCache stores generated text by operation and prompt
type ResponseCache interface {
	Get(operation, input string) (string, bool)
	Set(operation, input, value string) error
}

// Options wires the assistant's collaborators. Masker, Cache, Activity and
// Counter are optional.
type Options struct {
	Provider   providers.Provider
	Processor  *processor.ResponseProcessor
	Masker     *redact.MaskingService
	Cache      ResponseCache
	Activity   storage.ActivityLog
	Sessions   *SessionStore
	Counter    TokenCounter
	Lawyers    []Lawyer
	RandSource rand.Source
	Chat       config.ChatConfig
	Logging    config.LoggingConfig
	Logger     *zap.Logger
}

// Assistant answers user messages within a conversation
type Assistant struct {
	provider  providers.Provider
	processor *processor.ResponseProcessor
	masker    *redact.MaskingService
	cache     ResponseCache
	activity  storage.ActivityLog
	sessions  *SessionStore
	counter   TokenCounter
	lawyers   []Lawyer
	chatCfg   config.ChatConfig
	logCfg    config.LoggingConfig
	logger    *zap.Logger
	now       func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewAssistant(opts Options) *Assistant {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.RandSource
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = NewSessionStore()
	}
	proc := opts.Processor
	if proc == nil {
		proc = processor.NewResponseProcessor(opts.Logging, logger)
	}
	lawyers := opts.Lawyers
	if len(lawyers) == 0 {
		lawyers = SyntheticLawyers
	}

	return &Assistant{
		provider:  opts.Provider,
		processor: proc,
		masker:    opts.Masker,
		cache:     opts.Cache,
		activity:  opts.Activity,
		sessions:  sessions,
		counter:   opts.Counter,
		lawyers:   lawyers,
		chatCfg:   opts.Chat,
		logCfg:    opts.Logging,
		logger:    logger.Named("chat"),
		now:       time.Now,
		// #nosec G404 - referral shuffling is not security sensitive
		rnd: rand.New(src),
	}
}

// Sessions exposes the conversation store
func (a *Assistant) Sessions() *SessionStore {
	return a.sessions
}

// StartConversation creates a new conversation seeded with the greeting
func (a *Assistant) StartConversation() Conversation {
	return a.sessions.Create()
}

// Reply classifies text, produces the bot reply and appends both messages to
// the conversation. Provider failures are answered with FallbackReply.
func (a *Assistant) Reply(ctx context.Context, sessionID, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	conv, err := a.sessions.Get(sessionID)
	if err != nil {
		return Message{}, err
	}

	intent := Classify(text)
	userMsg := newMessage(text, SenderUser, a.now())
	if err := a.sessions.Append(sessionID, userMsg); err != nil {
		return Message{}, err
	}

	if a.logCfg.LogRequests {
		a.logger.Info("user message", zap.String("session", sessionID), zap.String("intent", string(intent)), zap.Int("length", len(text)))
	}

	var cleaned string
	var sources []processor.Source
	var redacted []storage.RedactionEntry
	if intent == IntentReferral {
		cleaned = FormatReferrals(a.pickLawyers(text), text)
	} else {
		prompt := BuildPrompt(conv.Messages, text, intent, PromptOptions{
			HistoryWindow: a.chatCfg.HistoryWindow,
			MaxTokens:     a.chatCfg.MaxPromptTokens,
			Counter:       a.counter,
		})
		var generated string
		generated, redacted = a.generate(ctx, "chat:"+string(intent), prompt)
		cleaned, sources = a.processor.ProcessReply(generated)
	}

	botMsg := newMessage(cleaned, SenderBot, a.now())
	botMsg.Sources = sources
	botMsg.DocumentType = intent.DocumentType()

	if err := a.sessions.Append(sessionID, botMsg); err != nil {
		return Message{}, err
	}

	a.record(ctx, storage.DirectionIn, intent, a.maskForLog(ctx, text), redacted)
	a.record(ctx, storage.DirectionOut, intent, cleaned, nil)

	return botMsg, nil
}

// Generate runs one prompt through redaction, the cache and the provider.
// It returns FallbackReply when the provider fails.
func (a *Assistant) Generate(ctx context.Context, operation, prompt string) string {
	text, _ := a.generate(ctx, operation, prompt)
	return text
}

// GenerateRaw is Generate without the fallback: provider errors are returned
func (a *Assistant) GenerateRaw(ctx context.Context, operation, prompt string) (string, error) {
	text, _, err := a.generateRaw(ctx, operation, prompt)
	return text, err
}

func (a *Assistant) generate(ctx context.Context, operation, prompt string) (string, []storage.RedactionEntry) {
	text, redacted, err := a.generateRaw(ctx, operation, prompt)
	if err != nil {
		a.logger.Error("text generation failed", zap.String("operation", operation), zap.Error(err))
		return FallbackReply, redacted
	}
	return text, redacted
}

func (a *Assistant) generateRaw(ctx context.Context, operation, prompt string) (string, []storage.RedactionEntry, error) {
	outbound := prompt
	mapping := map[string]string{}
	var redacted []storage.RedactionEntry

	if a.masker != nil {
		masked := a.masker.MaskText(ctx, prompt)
		outbound = masked.MaskedText
		mapping = masked.MaskedToOriginal
		redacted = redactionEntries(mapping)
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(operation, outbound); ok {
			a.logger.Debug("response cache hit", zap.String("operation", operation))
			return a.restore(cached, mapping), redacted, nil
		}
	}

	if a.provider == nil {
		return "", redacted, errors.New("no text-generation provider configured")
	}

	generated, err := a.provider.Generate(ctx, providers.GenerationRequest{
		Prompt:       outbound,
		MaxNewTokens: a.chatCfg.MaxNewTokens,
		Temperature:  a.chatCfg.Temperature,
		TopP:         a.chatCfg.TopP,
	})
	if err != nil {
		return "", redacted, err
	}

	if a.cache != nil {
		if err := a.cache.Set(operation, outbound, generated); err != nil {
			a.logger.Warn("failed to cache response", zap.Error(err))
		}
	}

	if a.logCfg.LogResponses {
		a.logger.Info("generated response", zap.String("operation", operation), zap.Int("length", len(generated)))
	}

	return a.restore(generated, mapping), redacted, nil
}

func (a *Assistant) restore(text string, mapping map[string]string) string {
	if a.masker == nil || len(mapping) == 0 {
		return text
	}
	return a.masker.RestorePII(text, mapping)
}

func (a *Assistant) maskForLog(ctx context.Context, text string) string {
	if a.masker == nil {
		return text
	}
	return a.masker.MaskText(ctx, text).MaskedText
}

func (a *Assistant) pickLawyers(query string) []Lawyer {
	a.rndMu.Lock()
	defer a.rndMu.Unlock()
	return FindRelevantLawyers(a.lawyers, query, a.rnd)
}

func (a *Assistant) record(ctx context.Context, dir storage.Direction, intent Intent, message string, redacted []storage.RedactionEntry) {
	if a.activity == nil {
		return
	}
	entry := storage.ActivityEntry{
		Timestamp: a.now(),
		Direction: dir,
		Intent:    string(intent),
		Message:   message,
		Redacted:  redacted,
	}
	if err := a.activity.InsertEntry(ctx, entry); err != nil {
		a.logger.Warn("failed to record activity", zap.String("direction", string(dir)), zap.Error(err))
	}
}

func redactionEntries(mapping map[string]string) []storage.RedactionEntry {
	if len(mapping) == 0 {
		return nil
	}
	entries := make([]storage.RedactionEntry, 0, len(mapping))
	for placeholder := range mapping {
		label := strings.TrimSuffix(strings.TrimPrefix(placeholder, "["), "]")
		if idx := strings.LastIndex(label, "_"); idx > 0 {
			label = label[:idx]
		}
		entries = append(entries, storage.RedactionEntry{Label: label, Placeholder: placeholder})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Placeholder < entries[j].Placeholder
	})
	return entries
}
