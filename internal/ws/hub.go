package ws

import (
	"encoding/json"
	"sync"

	"fintrack/internal/domain"
	"fintrack/internal/models"
	"fintrack/pkg/money"
)

// Client represents a single WebSocket connection.
type Client struct {
	Send   chan []byte
	Hub    *Hub // set so Close() can unregister
	mu     sync.Mutex
	closed bool
}

func NewClient(buffer int) *Client {
	return &Client{Send: make(chan []byte, buffer)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
	close(c.Send)
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// BroadcastAll sends payload to every client. Slow clients whose buffer is
// full miss the message rather than block the sender.
func (h *Hub) BroadcastAll(payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BalanceEvent tells the frontend a wallet's cached balance changed.
type BalanceEvent struct {
	Type     string       `json:"type"`
	WalletID uint         `json:"walletId"`
	Balance  money.Amount `json:"balance"`
	Archived bool         `json:"archived"`
}

// PublishBalances broadcasts one event per wallet.
func (h *Hub) PublishBalances(wallets []models.Wallet) {
	for _, w := range wallets {
		h.BroadcastAll(BalanceEvent{
			Type:     domain.EventWalletBalance,
			WalletID: w.ID,
			Balance:  w.Balance,
			Archived: w.Archived,
		})
	}
}
