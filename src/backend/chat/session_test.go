package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreCreateSeedsGreeting(t *testing.T) {
	store := NewSessionStore()
	conv := store.Create()

	require.NotEmpty(t, conv.ID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, InitialGreeting, conv.Messages[0].Text)
	assert.Equal(t, SenderBot, conv.Messages[0].Sender)
	assert.Equal(t, 1, store.Len())

	other := store.Create()
	assert.NotEqual(t, conv.ID, other.ID)
}

func TestSessionStoreGetReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	conv := store.Create()

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	got.Messages[0].Text = "changed"

	again, err := store.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, InitialGreeting, again.Messages[0].Text)
}

func TestSessionStoreAppendAndDelete(t *testing.T) {
	store := NewSessionStore()
	conv := store.Create()

	require.NoError(t, store.Append(conv.ID, Message{Text: "a", Sender: SenderUser}, Message{Text: "b", Sender: SenderBot}))
	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "b", got.Messages[2].Text)

	store.Delete(conv.ID)
	_, err = store.Get(conv.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Append(conv.ID, Message{}), ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStoreConcurrentAppend(t *testing.T) {
	store := NewSessionStore()
	conv := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(conv.ID, Message{Text: "x", Sender: SenderUser})
		}()
	}
	wg.Wait()

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 51)
}
