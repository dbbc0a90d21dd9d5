package tools

import (
	"context"
	"strings"
	"time"

	"github.com/chainchat-labs/txengine/internal/cache"
)

const sessionTTL = 24 * time.Hour

// SessionStore remembers the chat handle last used by each wallet so that
// tools can omit chat_id on repeat calls within the same conversation.
type SessionStore struct {
	cache cache.Cache
}

func NewSessionStore(c cache.Cache) *SessionStore {
	return &SessionStore{cache: c}
}

func sessionKey(userAddress string) string {
	return "session:chat:" + strings.ToLower(userAddress)
}

func (s *SessionStore) ChatFor(ctx context.Context, userAddress string) (string, bool) {
	if s == nil || s.cache == nil {
		return "", false
	}
	chatID, ok, err := s.cache.Get(ctx, sessionKey(userAddress))
	if err != nil || !ok || chatID == "" {
		return "", false
	}
	return chatID, true
}

func (s *SessionStore) Remember(ctx context.Context, userAddress, chatID string) {
	if s == nil || s.cache == nil || chatID == "" {
		return
	}
	// Best effort; a cold cache only forces the caller to resend chat_id.
	_ = s.cache.Set(ctx, sessionKey(userAddress), chatID, sessionTTL)
}
