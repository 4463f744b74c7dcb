package bridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/colorfulnotion/embive/vm"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestTraceHubBroadcastsToConnectedClient(t *testing.T) {
	hub := NewTraceHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the upgrade handshake time to register the client before
	// broadcasting; Trace only reaches clients already in the map.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Trace(vm.TraceEvent{PC: 4, Opcode: "addi", NextPC: 8})

	var ev vm.TraceEvent
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, uint32(4), ev.PC)
	require.Equal(t, "addi", ev.Opcode)
}
