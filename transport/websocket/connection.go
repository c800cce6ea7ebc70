package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait / 2
)

// connection serializes writes; gorilla allows one concurrent writer per conn.
type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newConnection(conn *websocket.Conn) *connection {
	return &connection{conn: conn}
}

func (that *connection) send(action string, payload ResponsePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) ping() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// connectionManager tracks the latest connection each token spoke on.
type connectionManager struct {
	mu      sync.RWMutex
	byToken map[string]*connection
}

func newConnectionManager() *connectionManager {
	return &connectionManager{
		byToken: make(map[string]*connection),
	}
}

func (that *connectionManager) bind(token string, conn *connection) {
	if token == "" {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.byToken[token] = conn
}

func (that *connectionManager) get(token string) (*connection, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	conn, ok := that.byToken[token]

	return conn, ok
}

// release drops every token still bound to conn and returns them.
func (that *connectionManager) release(conn *connection) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	var tokens []string
	for token, bound := range that.byToken {
		if bound == conn {
			tokens = append(tokens, token)
			delete(that.byToken, token)
		}
	}

	return tokens
}
