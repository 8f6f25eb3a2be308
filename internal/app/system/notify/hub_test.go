package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/notify"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, hub *notify.Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Count() == 0 {
		t.Fatal("client never registered")
	}
	return conn
}

func TestHub_PublishReachesClient(t *testing.T) {
	hub := notify.NewHub(nil, zap.NewNop())
	conn := dialHub(t, hub)

	hub.Publish(models.Notification{ID: "1", Type: models.NotifySystem, Title: "Hello"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg notify.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "notification" || msg.Data.Title != "Hello" {
		t.Fatalf("unexpected frame %s", data)
	}
}

func TestHub_SubscribeFiltersTypes(t *testing.T) {
	hub := notify.NewHub(nil, zap.NewNop())
	conn := dialHub(t, hub)

	if err := conn.WriteJSON(map[string]any{"action": "subscribe", "types": []string{models.NotifyCouponExpiry}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Give the read loop a moment to apply the subscription.
	time.Sleep(100 * time.Millisecond)

	hub.Publish(models.Notification{ID: "1", Type: models.NotifySystem, Title: "skip me"})
	hub.Publish(models.Notification{ID: "2", Type: models.NotifyCouponExpiry, Title: "deliver me"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "deliver me") {
		t.Fatalf("expected only the subscribed type, got %s", data)
	}
}
