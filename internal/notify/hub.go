package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/utils"
)

const writeTimeout = 10 * time.Second

// subscriber pairs a connection with its write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and Publish may run
// from any number of preparation pipelines at once.
type subscriber struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (s *subscriber) send(notice TransactionNotice) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(notice)
}

// Hub is a websocket fan-out keyed by normalized user address and by chat ID.
// It is a broadcast target only; it owns no transaction state.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	byUser map[string]map[*subscriber]struct{}
	byChat map[string]map[*subscriber]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		byUser: make(map[string]map[*subscriber]struct{}),
		byChat: make(map[string]map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades a subscription request. Clients identify themselves with
// `address` and/or `chat_id` query parameters.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	address := utils.NormalizeAddress(r.URL.Query().Get("address"))
	chatID := r.URL.Query().Get("chat_id")
	if address == "" && chatID == "" {
		http.Error(w, "address or chat_id query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn}
	h.register(address, chatID, sub)
	h.logger.Debug("client subscribed", zap.String("address", address), zap.String("chat_id", chatID))

	// Reader loop only drains control frames; unsubscribing happens on any
	// read error.
	go func() {
		defer func() {
			h.unregister(address, chatID, sub)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(address, chatID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if address != "" {
		if h.byUser[address] == nil {
			h.byUser[address] = make(map[*subscriber]struct{})
		}
		h.byUser[address][sub] = struct{}{}
	}
	if chatID != "" {
		if h.byChat[chatID] == nil {
			h.byChat[chatID] = make(map[*subscriber]struct{})
		}
		h.byChat[chatID][sub] = struct{}{}
	}
}

func (h *Hub) unregister(address, chatID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.byUser[address]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.byUser, address)
		}
	}
	if subs, ok := h.byChat[chatID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.byChat, chatID)
		}
	}
}

// Publish sends the notice to every connection subscribed to the user address
// or the chat ID. It fails only when no connection could be reached.
func (h *Hub) Publish(ctx context.Context, userAddress, chatID string, notice TransactionNotice) error {
	h.mu.RLock()
	targets := make(map[*subscriber]struct{})
	for sub := range h.byUser[utils.NormalizeAddress(userAddress)] {
		targets[sub] = struct{}{}
	}
	for sub := range h.byChat[chatID] {
		targets[sub] = struct{}{}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return fmt.Errorf("no connected client for user %s or chat %s", userAddress, chatID)
	}

	delivered := 0
	for sub := range targets {
		if err := sub.send(notice); err != nil {
			h.logger.Warn("notification write failed", zap.Error(err))
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("all %d notification writes failed", len(targets))
	}
	return nil
}
