package tools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainchat-labs/txengine/internal/cache"
	"github.com/chainchat-labs/txengine/internal/tools"
)

func TestSessionStoreRememberAndLookup(t *testing.T) {
	store := tools.NewSessionStore(cache.NewMemoryCache())
	ctx := context.Background()

	_, ok := store.ChatFor(ctx, "0xAbC0000000000000000000000000000000000001")
	assert.False(t, ok)

	store.Remember(ctx, "0xAbC0000000000000000000000000000000000001", "chat-42")

	// Lookup is case-insensitive on the wallet address.
	chatID, ok := store.ChatFor(ctx, "0xabc0000000000000000000000000000000000001")
	require.True(t, ok)
	assert.Equal(t, "chat-42", chatID)
}

func TestSessionStoreIgnoresEmptyChatID(t *testing.T) {
	store := tools.NewSessionStore(cache.NewMemoryCache())
	ctx := context.Background()

	store.Remember(ctx, "0xAbC0000000000000000000000000000000000001", "")
	_, ok := store.ChatFor(ctx, "0xAbC0000000000000000000000000000000000001")
	assert.False(t, ok)
}

func TestSessionStoreNilCacheSafe(t *testing.T) {
	store := tools.NewSessionStore(nil)
	store.Remember(context.Background(), "0xAbC0000000000000000000000000000000000001", "chat-1")
	_, ok := store.ChatFor(context.Background(), "0xAbC0000000000000000000000000000000000001")
	assert.False(t, ok)
}
