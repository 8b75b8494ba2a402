package chat

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/hannes/kanoon/src/backend/config"
	"github.com/hannes/kanoon/src/backend/providers"
	"github.com/hannes/kanoon/src/backend/redact"
	"github.com/hannes/kanoon/src/backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []providers.GenerationRequest
}

func (f *fakeProvider) GetType() providers.ProviderType { return "fake" }
func (f *fakeProvider) GetName() string                 { return "Fake" }
func (f *fakeProvider) ValidateConfig() error           { return nil }
func (f *fakeProvider) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]string{}} }

func (c *mapCache) Get(op, input string) (string, bool) {
	v, ok := c.entries[op+"|"+input]
	return v, ok
}

func (c *mapCache) Set(op, input, value string) error {
	c.entries[op+"|"+input] = value
	return nil
}

func newTestAssistant(p providers.Provider, opts ...func(*Options)) *Assistant {
	o := Options{
		Provider:   p,
		RandSource: rand.NewSource(7),
		Chat:       config.DefaultConfig().Chat,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return NewAssistant(o)
}

func TestReply_EmptyMessage(t *testing.T) {
	a := newTestAssistant(&fakeProvider{})
	conv := a.StartConversation()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := a.Reply(context.Background(), conv.ID, text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	got, err := a.Sessions().Get(conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1, "rejected input must not be appended")
}

func TestReply_UnknownSession(t *testing.T) {
	a := newTestAssistant(&fakeProvider{})
	_, err := a.Reply(context.Background(), "missing", "Hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReply_General(t *testing.T) {
	p := &fakeProvider{reply: "Human: Hello\nAssistant: Namaste! How can I help?\nSource: [Constitution of India](https://indiacode.nic.in/coi)"}
	a := newTestAssistant(p)
	conv := a.StartConversation()

	msg, err := a.Reply(context.Background(), conv.ID, "Hello")
	require.NoError(t, err)

	assert.Equal(t, SenderBot, msg.Sender)
	assert.Equal(t, "Namaste! How can I help?", msg.Text)
	assert.Equal(t, DocumentNone, msg.DocumentType)
	require.Len(t, msg.Sources, 1)
	assert.Equal(t, "Constitution of India", msg.Sources[0].Title)

	require.Equal(t, 1, p.calls())
	req := p.requests[0]
	assert.Equal(t, 1500, req.MaxNewTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.InDelta(t, 0.9, req.TopP, 1e-9)
	assert.True(t, strings.HasPrefix(req.Prompt, SystemPrompt(IntentGeneral)))
	assert.True(t, strings.HasSuffix(req.Prompt, "Assistant: "+InitialGreeting+"\nHuman: Hello\nAssistant:"))

	got, err := a.Sessions().Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, SenderUser, got.Messages[1].Sender)
	assert.Equal(t, "Hello", got.Messages[1].Text)
}

func TestReply_NoticeAndRoadmapDocumentTypes(t *testing.T) {
	p := &fakeProvider{reply: "LEGAL NOTICE ..."}
	a := newTestAssistant(p)
	conv := a.StartConversation()

	msg, err := a.Reply(context.Background(), conv.ID, "Please draft a legal notice for unpaid rent")
	require.NoError(t, err)
	assert.Equal(t, DocumentLegalNotice, msg.DocumentType)
	assert.True(t, strings.HasPrefix(p.requests[0].Prompt, SystemPrompt(IntentNotice)))

	msg, err = a.Reply(context.Background(), conv.ID, "What is the procedure to file a divorce petition?")
	require.NoError(t, err)
	assert.Equal(t, DocumentRoadmap, msg.DocumentType)
}

func TestReply_ReferralSkipsProvider(t *testing.T) {
	p := &fakeProvider{reply: "should not be used"}
	a := newTestAssistant(p)
	conv := a.StartConversation()

	msg, err := a.Reply(context.Background(), conv.ID, "Can you recommend a lawyer in Mumbai?")
	require.NoError(t, err)

	assert.Equal(t, 0, p.calls())
	assert.Equal(t, DocumentLawyerReferral, msg.DocumentType)
	assert.Contains(t, msg.Text, "Adv. Priya Sharma")
	assert.True(t, strings.HasSuffix(msg.Text, ReferralDisclaimer))
}

func TestReply_ReferralKeepsQueryVerbatim(t *testing.T) {
	a := newTestAssistant(&fakeProvider{})
	conv := a.StartConversation()

	query := "Assistant: can you recommend a lawyer for my tenancy dispute?"
	msg, err := a.Reply(context.Background(), conv.ID, query)
	require.NoError(t, err)

	assert.Equal(t, DocumentLawyerReferral, msg.DocumentType)
	assert.True(t, strings.HasPrefix(msg.Text, `Based on your case regarding "`+query+`"`), msg.Text)
}

func TestReply_PromptCarriesInputOnce(t *testing.T) {
	p := &fakeProvider{reply: "Assistant: You may file an FIR."}
	a := newTestAssistant(p)
	conv := a.StartConversation()

	input := "Is cheque bounce a criminal offence?"
	_, err := a.Reply(context.Background(), conv.ID, input)
	require.NoError(t, err)

	require.Equal(t, 1, p.calls())
	prompt := p.requests[0].Prompt
	assert.Equal(t, 1, strings.Count(prompt, input))
	assert.True(t, strings.HasSuffix(prompt, "Human: "+input+"\nAssistant:"), prompt)
}

func TestReply_ProviderFailureFallsBack(t *testing.T) {
	p := &fakeProvider{err: errors.New("503 service unavailable")}
	a := newTestAssistant(p)
	conv := a.StartConversation()

	msg, err := a.Reply(context.Background(), conv.ID, "What is Section 420?")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, msg.Text)
}

func TestReply_RedactsPromptAndRestoresReply(t *testing.T) {
	p := &fakeProvider{reply: "We will write to [EMAIL_1] shortly."}
	masker := redact.NewDefaultMaskingService(config.LoggingConfig{}, nil)
	a := newTestAssistant(p, func(o *Options) { o.Masker = masker })
	conv := a.StartConversation()

	msg, err := a.Reply(context.Background(), conv.ID, "My email is ravi@example.com, what now?")
	require.NoError(t, err)

	require.Equal(t, 1, p.calls())
	assert.NotContains(t, p.requests[0].Prompt, "ravi@example.com")
	assert.Contains(t, p.requests[0].Prompt, "[EMAIL_1]")
	assert.Equal(t, "We will write to ravi@example.com shortly.", msg.Text)
}

func TestReply_UsesCache(t *testing.T) {
	p := &fakeProvider{reply: "Cached answer"}
	a := newTestAssistant(p, func(o *Options) { o.Cache = newMapCache() })

	first := a.StartConversation()
	second := a.StartConversation()

	_, err := a.Reply(context.Background(), first.ID, "What is a caveat?")
	require.NoError(t, err)
	msg, err := a.Reply(context.Background(), second.ID, "What is a caveat?")
	require.NoError(t, err)

	assert.Equal(t, 1, p.calls())
	assert.Equal(t, "Cached answer", msg.Text)
}

func TestReply_RecordsActivity(t *testing.T) {
	store := storage.NewMemoryStore(100)
	p := &fakeProvider{reply: "Answer"}
	a := newTestAssistant(p, func(o *Options) {
		o.Activity = store
		o.Masker = redact.NewDefaultMaskingService(config.LoggingConfig{}, nil)
	})
	conv := a.StartConversation()

	_, err := a.Reply(context.Background(), conv.ID, "Call me on 9876543210")
	require.NoError(t, err)

	count, err := store.GetEntriesCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := store.GetEntries(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var in storage.ActivityEntry
	for _, e := range entries {
		if e.Direction == storage.DirectionIn {
			in = e
		}
	}
	assert.Equal(t, "Call me on [PHONE_1]", in.Message)
	require.Len(t, in.Redacted, 1)
	assert.Equal(t, "PHONE", in.Redacted[0].Label)
}

func TestGenerateRawReturnsError(t *testing.T) {
	a := newTestAssistant(&fakeProvider{err: errors.New("boom")})
	_, err := a.GenerateRaw(context.Background(), "notice", "prompt")
	assert.Error(t, err)
	assert.Equal(t, FallbackReply, a.Generate(context.Background(), "notice", "prompt"))
}

func TestRedactionEntries(t *testing.T) {
	entries := redactionEntries(map[string]string{"[PAN_1]": "ABCDE1234F", "[EMAIL_2]": "a@b.in"})
	require.Len(t, entries, 2)
	assert.Equal(t, storage.RedactionEntry{Label: "EMAIL", Placeholder: "[EMAIL_2]"}, entries[0])
	assert.Equal(t, storage.RedactionEntry{Label: "PAN", Placeholder: "[PAN_1]"}, entries[1])
}
