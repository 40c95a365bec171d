package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// dialConn upgrades a real socket pair and wraps the client side in a
// Connection. The server side just drains until the socket closes.
func dialConn(t *testing.T) *Connection {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return NewConnection("alice", ws)
}

func TestConnection_CloseDuringConcurrentSend(t *testing.T) {
	conn := dialConn(t)
	conn.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = conn.Send([]byte("change"))
			}
		}()
	}

	conn.Close(websocket.CloseNormalClosure, "")
	wg.Wait()

	if !conn.Closed() {
		t.Error("expected connection to report closed")
	}
	if err := conn.Send([]byte("late")); err == nil {
		t.Error("expected Send after Close to fail")
	}
}

func TestConnection_CloseIsIdempotent(t *testing.T) {
	conn := dialConn(t)
	conn.Start()

	conn.Close(websocket.CloseNormalClosure, "")
	conn.Close(websocket.CloseGoingAway, "again")

	if !conn.Closed() {
		t.Error("expected connection to report closed")
	}
}
