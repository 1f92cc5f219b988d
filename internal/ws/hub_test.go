package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/internal/domain"
	"fintrack/internal/models"
	"fintrack/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishBalances(t *testing.T) {
	hub := NewHub()
	c := NewClient(4)
	hub.Register(c)
	require.Equal(t, 1, hub.ClientCount())

	hub.PublishBalances([]models.Wallet{{ID: 3, Balance: 1500}})

	var ev BalanceEvent
	require.NoError(t, json.Unmarshal(<-c.Send, &ev))
	assert.Equal(t, domain.EventWalletBalance, ev.Type)
	assert.Equal(t, uint(3), ev.WalletID)
	assert.Equal(t, money.Amount(1500), ev.Balance)

	c.Close()
	c.Close()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	hub := NewHub()
	c := NewClient(1)
	hub.Register(c)
	defer c.Close()

	hub.BroadcastAll("first")
	hub.BroadcastAll("second")
	assert.Len(t, c.Send, 1)
}

func TestUpgradeStreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws/balances", UpgradeBalanceWS(&config.WSConfig{PingInterval: time.Minute, SendBuffer: 8}, hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/balances"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.PublishBalances([]models.Wallet{{ID: 7, Balance: -20, Archived: true}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev BalanceEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, uint(7), ev.WalletID)
	assert.Equal(t, money.Amount(-20), ev.Balance)
	assert.True(t, ev.Archived)
}
