package stream

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
)

func allowAll(c *fiber.Ctx) error { return c.Next() }

func denyAll(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusUnauthorized, "missing token")
}

func serve(t *testing.T, hub *Hub) string {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), hub, allowAll, allowAll)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func waitForClient(t *testing.T, hub *Hub, key string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(key) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client %q never registered", key)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamHandlersUpgradeRequired(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil), allowAll, allowAll)

	req := httptest.NewRequest(http.MethodGet, "/stream/notifications/alice", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersRequireAuth(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil), denyAll, allowAll)

	req := httptest.NewRequest(http.MethodGet, "/stream/notifications/alice", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersRejectForeignInbox(t *testing.T) {
	forbid := func(c *fiber.Ctx) error {
		if c.Params("username") != "alice" {
			return fiber.NewError(fiber.StatusForbidden, "not your inbox")
		}
		return c.Next()
	}
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil), allowAll, forbid)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream/notifications/bob", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersWebsocketBroadcast(t *testing.T) {
	hub := NewHub(nil)
	base := serve(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/notifications/alice", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitForClient(t, hub, "alice")

	hub.Broadcast("alice", []byte(`{"type":"like"}`))
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(msg) != `{"type":"like"}` {
		t.Fatalf("unexpected message %q", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("client")); err != nil {
		t.Fatalf("write error: %v", err)
	}
}

func TestStreamHandlersUnregisterOnClose(t *testing.T) {
	hub := NewHub(nil)
	base := serve(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/notifications/bob", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	waitForClient(t, hub, "bob")

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("bob") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client was not unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	hub.Broadcast("bob", []byte("ping"))
}
