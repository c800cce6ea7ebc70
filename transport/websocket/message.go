package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

const (
	actionCreate = "session:create"
	actionJoin   = "session:join"
	actionMove   = "session:move"
	actionLeave  = "session:leave"
	actionGet    = "session:get"
	actionError  = "error"

	// pushed to seated players
	actionUpdate = "session:update"
	actionLeft   = "session:left"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Token      string           `json:"token,omitempty"`
	SessionID  string           `json:"session_id,omitempty"`
	InviteCode string           `json:"invite_code,omitempty"`
	From       *entity.Position `json:"from,omitempty"`
	To         *entity.Position `json:"to,omitempty"`
}

type ResponsePayload struct {
	Session *entity.GameView `json:"session,omitempty"`
	Color   entity.Color     `json:"color,omitempty"`
	Error   string           `json:"error,omitempty"`
	Kind    string           `json:"kind,omitempty"`
}
