package agent

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

func testCatalog(t *testing.T) *paramspace.Catalog {
	t.Helper()
	cat, err := paramspace.NewCatalog([]paramspace.Descriptor{
		{Name: "threads", Kind: paramspace.KindInt, Int: paramspace.IntParam{Min: 1, Max: 4, Step: 1, Default: 2}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

// newTestAgent starts a websocket server that performs the configure
// handshake, then echoes back a fixed energy value for every
// EvaluateRequest.
func newTestAgent(t *testing.T, energy float64, ok bool) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var configure ConfigureRequest
		if err := conn.ReadJSON(&configure); err != nil {
			return
		}
		for {
			var req EvaluateRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			conn.WriteJSON(EvaluateResponse{Energy: energy, Ok: ok})
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestEvaluateRoundTrip(t *testing.T) {
	url := newTestAgent(t, 42.5, true)
	e := New(Config{URL: url}, testCatalog(t))
	defer e.Close()

	val, ok := e.Evaluate(paramspace.State{"threads": "2"}, 0)
	if !ok {
		t.Fatal("Evaluate() ok = false, want true")
	}
	if val != 42.5 {
		t.Fatalf("Evaluate() = %v, want 42.5", val)
	}
}

func TestEvaluateReusesConnectionPerWorker(t *testing.T) {
	url := newTestAgent(t, 1, true)
	e := New(Config{URL: url}, testCatalog(t))
	defer e.Close()

	e.Evaluate(paramspace.State{"threads": "2"}, 0)
	e.Evaluate(paramspace.State{"threads": "2"}, 0)
	e.mu.Lock()
	n := len(e.conns)
	e.mu.Unlock()
	if n != 1 {
		t.Fatalf("open connections = %d, want 1 for repeated calls from the same worker", n)
	}
}

func TestEvaluatePropagatesAgentNotOk(t *testing.T) {
	url := newTestAgent(t, 0, false)
	e := New(Config{URL: url}, testCatalog(t))
	defer e.Close()

	_, ok := e.Evaluate(paramspace.State{"threads": "2"}, 0)
	if ok {
		t.Fatal("Evaluate() ok = true, want false when the agent reports ok=false")
	}
}

func TestEvaluateFailsOnUnreachableAgent(t *testing.T) {
	e := New(Config{URL: "ws://127.0.0.1:1/nope"}, testCatalog(t))
	defer e.Close()

	if _, ok := e.Evaluate(paramspace.State{"threads": "2"}, 0); ok {
		t.Fatal("Evaluate() ok = true for an unreachable agent, want false")
	}
}

func TestCloseClosesAllConnections(t *testing.T) {
	url := newTestAgent(t, 1, true)
	e := New(Config{URL: url}, testCatalog(t))
	e.Evaluate(paramspace.State{"threads": "2"}, 0)
	e.Evaluate(paramspace.State{"threads": "2"}, 1)

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	e.mu.Lock()
	n := len(e.conns)
	e.mu.Unlock()
	if n != 0 {
		t.Fatalf("open connections after Close() = %d, want 0", n)
	}
}
