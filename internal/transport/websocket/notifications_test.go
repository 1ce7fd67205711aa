package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"coachdash/internal/domain"
)

func newTestHub(t *testing.T) (*NotificationHub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewNotificationHub(nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/:channel", func(c *gin.Context) {
		hub.Serve(c, c.Param("channel"))
	})
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, channel string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + channel
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitListeners(t *testing.T, hub *NotificationHub, channel string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Listeners(channel) != want {
		if time.Now().After(deadline) {
			t.Fatalf("listeners on %s = %d, want %d", channel, hub.Listeners(channel), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNotifyReachesChannel(t *testing.T) {
	hub, srv := newTestHub(t)
	coach := dial(t, srv, "c1")
	other := dial(t, srv, "c2")
	waitListeners(t, hub, "c1", 1)
	waitListeners(t, hub, "c2", 1)

	hub.Notify(domain.Notification{
		Channel: "c1",
		Level:   domain.NotificationSuccess,
		Event:   "booking.approved",
		Message: "Booking approved successfully",
	})

	coach.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := coach.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got domain.Notification
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != "booking.approved" || got.Level != domain.NotificationSuccess {
		t.Errorf("notification = %+v", got)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("notification leaked to another channel")
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "d1")
	waitListeners(t, hub, "d1", 1)

	conn.Close()
	waitListeners(t, hub, "d1", 0)
}
