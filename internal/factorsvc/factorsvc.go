// Package factorsvc exposes GenFactor over WebSocket so a factoring
// request can be dispatched to a worker process instead of run
// in-process — the RPC surface named in SPEC_FULL §11.2. Connection
// bookkeeping (client map, per-client mutex, ID-based addressing)
// follows the teacher's network.NetworkModule WebSocket server.
package factorsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/expr"
	"algcore/internal/factor"
	"algcore/internal/kernelstore"
)

// Request is one factoring job, sent as a JSON text frame.
type Request struct {
	Strategy string        `json:"strategy"` // "quick", "good", "bool"
	VarNum   int           `json:"var_num"`
	Cubes    [][]WireLiteral `json:"cubes"`
}

// WireLiteral is Literal's JSON wire form.
type WireLiteral struct {
	Var     int  `json:"v"`
	Negated bool `json:"n"`
}

// Response carries either a factored expression or an error string.
type Response struct {
	ExprText   string `json:"expr_text,omitempty"`
	LiteralNum int    `json:"literal_num,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Client is one accepted WebSocket connection.
type Client struct {
	ID     string
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

// Server tracks accepted clients and dispatches factoring requests.
type Server struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[string]*Client
	store    *kernelstore.Store
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithStore attaches a kernelstore cache: handleRequest consults it
// before running GenFactor and records the result after, so repeat
// requests for the same cover and strategy skip the recursive
// enumeration.
func WithStore(store *kernelstore.Store) Option {
	return func(s *Server) { s.store = store }
}

// NewServer constructs a Server ready to be wired to an http.Handler
// via Handler.
func NewServer(opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler upgrades an incoming HTTP request to a WebSocket connection
// and serves factoring requests on it until the client disconnects.
func (s *Server) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{ID: uuid.NewString(), conn: conn}

	s.mu.Lock()
	s.clients[client.ID] = client
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, client.ID)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		resp := s.handleRequest(payload)
		out, err := json.Marshal(resp)
		if err != nil {
			return
		}
		client.mu.Lock()
		err = client.conn.WriteMessage(websocket.TextMessage, out)
		client.mu.Unlock()
		if err != nil {
			return
		}
	}
}

// ClientIDs lists currently connected clients.
func (s *Server) ClientIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) handleRequest(payload []byte) Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Response{Error: fmt.Sprintf("factorsvc: malformed request: %v", err)}
	}

	cubes := make([][]bitpack.Literal, len(req.Cubes))
	for i, row := range req.Cubes {
		lits := make([]bitpack.Literal, len(row))
		for j, l := range row {
			lits[j] = bitpack.Literal{Var: bitpack.Var(l.Var), Negated: l.Negated}
		}
		cubes[i] = lits
	}
	c, err := cover.New(req.VarNum, cubes)
	if err != nil {
		return Response{Error: fmt.Sprintf("factorsvc: %v", err)}
	}

	if req.Strategy != "quick" && req.Strategy != "good" && req.Strategy != "bool" {
		return Response{Error: fmt.Sprintf("factorsvc: unknown strategy %q", req.Strategy)}
	}

	ctx := context.Background()
	if s.store != nil {
		if hit, err := s.store.Lookup(ctx, c, req.Strategy); err == nil && hit != nil {
			return Response{ExprText: hit.ExprText, LiteralNum: hit.LiteralNum}
		}
	}

	var e *expr.Expr
	switch req.Strategy {
	case "quick":
		e, err = factor.QuickFactor(c)
	case "good":
		e, err = factor.GoodFactor(c)
	case "bool":
		e, err = factor.BoolFactor(c)
	}
	if err != nil {
		return Response{Error: fmt.Sprintf("factorsvc: %v", err)}
	}

	if s.store != nil {
		s.store.Store(ctx, c, req.Strategy, e.String(), e.LiteralCount())
	}
	return Response{ExprText: e.String(), LiteralNum: e.LiteralCount()}
}
