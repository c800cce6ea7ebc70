package entity

// GameView is the part of a session a client may see. Tokens never leave the server.
type GameView struct {
	ID            string `json:"session_id"`
	Board         Board  `json:"board"`
	CurrentPlayer Color  `json:"current_player"`
	Winner        Color  `json:"winner,omitempty"`
	Status        string `json:"status"`
	InviteCode    string `json:"invite_code"`
	Opponent      bool   `json:"opponent_joined"`
	YourColor     Color  `json:"your_color,omitempty"`
}

// ViewFor masks the session for token. YourColor stays empty for non-participants.
func (that *Game) ViewFor(token string) *GameView {
	color, _ := that.ColorOf(token)

	return &GameView{
		ID:            that.ID,
		Board:         that.Board,
		CurrentPlayer: that.CurrentPlayer,
		Winner:        that.Winner,
		Status:        that.Status,
		InviteCode:    that.InviteCode,
		Opponent:      that.PlayerPurple != "" && that.PlayerGreen != "",
		YourColor:     color,
	}
}
