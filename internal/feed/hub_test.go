package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"zelapb/api/internal/store"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, func()) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(stopped)
	}()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, store.BroadcastTarget(r.URL.Query().Get("audience")))
	}))
	stop := func() {
		cancel()
		<-stopped
		server.Close()
	}
	return hub, server, stop
}

func dial(t *testing.T, server *httptest.Server, audience string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?audience=" + audience
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestHubFiltersByAudience(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, server, stop := startHub(t)
	citizen := dial(t, server, "citizens")
	team := dial(t, server, "teams")

	require.Eventually(t, func() bool { return hub.ConnectedClients() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(EventBroadcast, store.TargetTeams, "alerta")
	hub.Publish(EventBroadcast, store.TargetAll, "geral")

	first := readEvent(t, citizen)
	assert.Equal(t, "geral", first.Data)
	assert.Equal(t, store.TargetAll, first.Audience)

	assert.Equal(t, "alerta", readEvent(t, team).Data)
	assert.Equal(t, "geral", readEvent(t, team).Data)

	_ = citizen.Close()
	_ = team.Close()
	stop()
}

func TestHubStopClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, server, stop := startHub(t)
	conn := dial(t, server, "citizens")
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 1 }, 2*time.Second, 10*time.Millisecond)

	stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	_ = conn.Close()
	assert.Equal(t, 0, hub.ConnectedClients())
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hub.Run(ctx))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(EventReportCreated, store.TargetAll, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked after the hub stopped")
	}
}
