package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*realtime.Hub, *auth.Manager, *httptest.Server) {
	t.Helper()
	mgr, err := auth.NewManager("0123456789abcdef0123456789abcdef", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	hub := realtime.NewHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, mgr, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, mgr, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func issueToken(t *testing.T, mgr *auth.Manager) (string, primitive.ObjectID) {
	t.Helper()
	id := primitive.NewObjectID()
	tok, err := mgr.IssueToken(models.User{ID: id, Name: "Sock", Role: models.RoleActive})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok, id
}

func waitForClients(t *testing.T, hub *realtime.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients: got %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) realtime.Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev realtime.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return ev
}

func TestServeWS_RejectsMissingToken(t *testing.T) {
	_, _, srv := newTestServer(t)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
}

func TestBroadcast_ReachesAllClients(t *testing.T) {
	hub, mgr, srv := newTestServer(t)

	tokA, _ := issueToken(t, mgr)
	tokB, _ := issueToken(t, mgr)
	connA := dial(t, srv, tokA)
	connB := dial(t, srv, tokB)
	waitForClients(t, hub, 2)

	hub.Broadcast(realtime.Event{Name: realtime.EventFeedDeleted, Payload: "abc123"})

	for _, conn := range []*websocket.Conn{connA, connB} {
		ev := readEvent(t, conn)
		if ev.Name != realtime.EventFeedDeleted {
			t.Errorf("event: got %q, want %q", ev.Name, realtime.EventFeedDeleted)
		}
		if ev.Payload != "abc123" {
			t.Errorf("payload: got %v", ev.Payload)
		}
	}
}

func TestSendToUser_ScopedToRecipient(t *testing.T) {
	hub, mgr, srv := newTestServer(t)

	tokA, idA := issueToken(t, mgr)
	tokB, _ := issueToken(t, mgr)
	connA := dial(t, srv, tokA)
	connB := dial(t, srv, tokB)
	waitForClients(t, hub, 2)

	hub.SendToUser(idA.Hex(), realtime.Event{Name: realtime.EventNewNotification})

	ev := readEvent(t, connA)
	if ev.Name != realtime.EventNewNotification {
		t.Errorf("recipient event: got %q", ev.Name)
	}

	// The other client must not receive it.
	_ = connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := connB.ReadMessage(); err == nil {
		t.Error("non-recipient unexpectedly received a user-scoped event")
	}
}

func TestUnregister_OnDisconnect(t *testing.T) {
	hub, mgr, srv := newTestServer(t)

	tok, _ := issueToken(t, mgr)
	conn := dial(t, srv, tok)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
