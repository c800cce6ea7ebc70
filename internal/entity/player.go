package entity

// Assignment is what a client learns when it takes a seat.
type Assignment struct {
	SessionID string `json:"session_id"`
	Color     Color  `json:"color"`
}
