package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var secret = []byte("ws-secret")

func startServer(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, secret) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv, cancel
}

func waitForClients(hub *Hub, n int) {
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}

func waitStopped(t *testing.T, hub *Hub) {
	t.Helper()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func TestServeWsRejectsMissingAndUnprivilegedTokens(t *testing.T) {
	_, srv, _ := startServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %v", resp)
	}

	token, _ := middleware.IssueToken(secret, 5, "visitor", "user", nil, time.Now())
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %v", resp)
	}
}

func TestPublishReachesConnectedClient(t *testing.T) {
	hub, srv, _ := startServer(t)

	token, _ := middleware.IssueToken(secret, 1, "root", "superadmin", nil, time.Now())
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitForClients(hub, 1)

	event := notification.Event{ID: "evt-1", Type: notification.EventSubmitted, TicketNumber: "GA-TR-01", AwaitingLevel: 1}
	if err := hub.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got notification.Event
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "evt-1" || got.TicketNumber != "GA-TR-01" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestStoppedHubReleasesDisconnectingClients(t *testing.T) {
	hub, srv, cancel := startServer(t)

	token, _ := middleware.IssueToken(secret, 1, "root", "superadmin", nil, time.Now())
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForClients(hub, 1)

	cancel()
	waitStopped(t, hub)

	// The closed send queue makes the server hang up on the client.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the connection to be closed after shutdown")
	}
	if n := hub.ClientCount(); n != 0 {
		t.Fatalf("client count after shutdown = %d", n)
	}

	left := make(chan struct{})
	go func() {
		hub.leave(&Client{Hub: hub, Send: make(chan []byte)})
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked on a stopped hub")
	}

	if err := hub.Publish(context.Background(), notification.Event{ID: "late"}); err != nil {
		t.Fatalf("publish after shutdown: %v", err)
	}
}

func TestServeWsAfterShutdownClosesConnection(t *testing.T) {
	hub, srv, cancel := startServer(t)
	cancel()
	waitStopped(t, hub)

	token, _ := middleware.IssueToken(secret, 1, "root", "superadmin", nil, time.Now())
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away close, got %v", err)
	}
	if n := hub.ClientCount(); n != 0 {
		t.Fatalf("client count = %d, want 0", n)
	}
}
