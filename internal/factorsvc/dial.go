package factorsvc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"algcore/internal/cover"
)

// Conn is a client-side connection to a factorsvc Server.
type Conn struct {
	conn *websocket.Conn
}

// Dial connects to a factorsvc server at url (e.g. "ws://host:port/factor").
func Dial(url string) (*Conn, error) {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("factorsvc: dial %s: %w", url, err)
	}
	return &Conn{conn: conn}, nil
}

// Factor sends cov for factoring under strategy ("quick", "good", "bool")
// and waits for the response.
func (c *Conn) Factor(cov *cover.Cover, strategy string) (Response, error) {
	req := Request{Strategy: strategy, VarNum: cov.VarNum()}
	for _, lits := range cov.LiteralList() {
		row := make([]WireLiteral, len(lits))
		for i, l := range lits {
			row[i] = WireLiteral{Var: int(l.Var), Negated: l.Negated}
		}
		req.Cubes = append(req.Cubes, row)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("factorsvc: encode request: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return Response{}, fmt.Errorf("factorsvc: send request: %w", err)
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return Response{}, fmt.Errorf("factorsvc: read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("factorsvc: decode response: %w", err)
	}
	if resp.Error != "" {
		return Response{}, fmt.Errorf("factorsvc: %s", resp.Error)
	}
	return resp, nil
}

// Close closes the underlying WebSocket connection.
func (c *Conn) Close() error { return c.conn.Close() }
