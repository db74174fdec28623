// Package agent implements an energy.Evaluator that talks to a remote
// measurement agent over a JSON-over-WebSocket protocol, supplementing the
// predecessor's MeterProxy/EnergyEval modules and grounded on
// github.com/gorilla/websocket (carried in from the niceyeti-tabular
// example repo — the teacher itself has no WebSocket dependency). One
// connection is opened per worker ID so concurrent Evaluate calls never
// share a socket.
package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/reporting"
)

// ConfigureRequest is sent once per connection, before any EvaluateRequest,
// so the agent can validate it knows every tuned parameter (spec §4,
// supplemented from the predecessor's config handshake).
type ConfigureRequest struct {
	Kind       string   `json:"kind"`
	Parameters []string `json:"parameters"`
}

// EvaluateRequest asks the agent to measure state on behalf of workerID.
type EvaluateRequest struct {
	Kind     string            `json:"kind"`
	State    map[string]string `json:"state"`
	WorkerID int               `json:"worker_id"`
}

// EvaluateResponse is the agent's answer: Ok=false means "no value" under
// spec §4.9's failure semantics.
type EvaluateResponse struct {
	Energy float64 `json:"energy"`
	Ok     bool    `json:"ok"`
}

// Config describes how to reach the agent.
type Config struct {
	URL          string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	Logger       *reporting.Logger
}

// Evaluator is an energy.Evaluator backed by per-worker WebSocket
// connections to a remote agent.
type Evaluator struct {
	cfg     Config
	catalog *paramspace.Catalog

	mu    sync.Mutex
	conns map[int]*websocket.Conn
}

// New returns an Evaluator over cfg; catalog is sent in the configure
// handshake for every new connection.
func New(cfg Config, catalog *paramspace.Catalog) *Evaluator {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	return &Evaluator{cfg: cfg, catalog: catalog, conns: make(map[int]*websocket.Conn)}
}

// Evaluate sends an EvaluateRequest for workerID's connection (dialing and
// configuring it on first use) and returns ok=false on any transport,
// protocol, or agent-reported failure.
func (e *Evaluator) Evaluate(state paramspace.State, workerID int) (float64, bool) {
	conn, err := e.connFor(workerID)
	if err != nil {
		e.logf("worker %d: connect failed: %v", workerID, err)
		return 0, false
	}

	req := EvaluateRequest{Kind: "evaluate", State: state, WorkerID: workerID}
	conn.SetWriteDeadline(time.Now().Add(e.cfg.WriteTimeout))
	if err := conn.WriteJSON(req); err != nil {
		e.logf("worker %d: write failed: %v", workerID, err)
		e.dropConn(workerID)
		return 0, false
	}

	var resp EvaluateResponse
	conn.SetReadDeadline(time.Now().Add(e.cfg.ReadTimeout))
	if err := conn.ReadJSON(&resp); err != nil {
		e.logf("worker %d: read failed: %v", workerID, err)
		e.dropConn(workerID)
		return 0, false
	}
	return resp.Energy, resp.Ok
}

func (e *Evaluator) connFor(workerID int) (*websocket.Conn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if conn, ok := e.conns[workerID]; ok {
		return conn, nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: e.cfg.DialTimeout}
	conn, _, err := dialer.Dial(e.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("evalsvc/agent: dialing %s: %w", e.cfg.URL, err)
	}

	configure := ConfigureRequest{Kind: "configure", Parameters: e.catalog.Names()}
	conn.SetWriteDeadline(time.Now().Add(e.cfg.WriteTimeout))
	if err := conn.WriteJSON(configure); err != nil {
		conn.Close()
		return nil, fmt.Errorf("evalsvc/agent: configure handshake: %w", err)
	}

	e.conns[workerID] = conn
	return conn, nil
}

func (e *Evaluator) dropConn(workerID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if conn, ok := e.conns[workerID]; ok {
		conn.Close()
		delete(e.conns, workerID)
	}
}

// Close tears down every open connection.
func (e *Evaluator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var firstErr error
	for id, conn := range e.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.conns, id)
	}
	return firstErr
}

func (e *Evaluator) logf(format string, args ...interface{}) {
	if e.cfg.Logger == nil {
		return
	}
	e.cfg.Logger.Warn(fmt.Sprintf(format, args...))
}
