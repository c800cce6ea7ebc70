package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

func (that *Server) handleCreate(ctx context.Context, payload *Payload, conn *connection) error {
	game, err := that.gameUseCase.CreateSession(ctx, payload.Token)
	if err != nil {
		return that.replyError(conn, actionCreate, err)
	}

	return conn.send(actionCreate, ResponsePayload{
		Session: game.ViewFor(payload.Token),
		Color:   entity.Purple,
	})
}

func (that *Server) handleJoin(ctx context.Context, payload *Payload, conn *connection) error {
	log := that.logger.With("method", "handleJoin")

	game, color, err := that.gameUseCase.JoinSession(ctx, payload.InviteCode, payload.Token)
	if err != nil {
		return that.replyError(conn, actionJoin, err)
	}

	if err = conn.send(actionJoin, ResponsePayload{
		Session: game.ViewFor(payload.Token),
		Color:   color,
	}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcast(game, actionUpdate)

	log.Debug("player joined", "sessionID", game.ID, "color", color)

	return nil
}

func (that *Server) handleMove(ctx context.Context, payload *Payload, conn *connection) error {
	if payload.From == nil || payload.To == nil {
		return that.sendError(conn, actionMove, "from and to are required", apperror.KindBadRequest)
	}

	game, err := that.gameUseCase.SubmitMove(ctx, payload.SessionID, payload.Token, *payload.From, *payload.To)
	if err != nil {
		return that.replyError(conn, actionMove, err)
	}

	if err = conn.send(actionMove, ResponsePayload{Session: game.ViewFor(payload.Token)}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcast(game, actionUpdate)

	return nil
}

func (that *Server) handleLeave(ctx context.Context, payload *Payload, conn *connection) error {
	game, err := that.gameUseCase.LeaveSession(ctx, payload.SessionID, payload.Token)
	if err != nil {
		return that.replyError(conn, actionLeave, err)
	}

	if err = conn.send(actionLeave, ResponsePayload{}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	if game == nil {
		return nil
	}

	// the leaver already has its answer
	for _, token := range []string{game.PlayerPurple, game.PlayerGreen} {
		if token == payload.Token {
			continue
		}

		that.push(token, actionLeft, ResponsePayload{Session: game.ViewFor(token)})
	}

	return nil
}

func (that *Server) handleGet(ctx context.Context, payload *Payload, conn *connection) error {
	game, err := that.gameUseCase.GetSession(ctx, payload.SessionID)
	if err != nil {
		return that.replyError(conn, actionGet, err)
	}

	return conn.send(actionGet, ResponsePayload{Session: game.ViewFor(payload.Token)})
}

// broadcast pushes the fresh session to every seated player that has a live connection.
func (that *Server) broadcast(game *entity.Game, action string) {
	for _, token := range []string{game.PlayerPurple, game.PlayerGreen} {
		that.push(token, action, ResponsePayload{Session: game.ViewFor(token)})
	}
}

func (that *Server) push(token, action string, payload ResponsePayload) {
	log := that.logger.With("method", "push")

	if token == "" {
		return
	}

	conn, ok := that.connections.get(token)
	if !ok {
		log.Debug("connection not found for player", "sessionID", payload.Session.ID)
		return
	}

	if err := conn.send(action, payload); err != nil {
		log.Warn("failed to send session update", "sessionID", payload.Session.ID, "error", err)
	}
}

func (that *Server) replyError(conn *connection, action string, err error) error {
	kind := apperror.Kind(err)
	message := err.Error()

	if kind == apperror.KindInternal {
		that.logger.Error("request failed", "action", action, "error", err)
		message = "internal error"
	}

	return that.sendError(conn, action, message, kind)
}

func (that *Server) sendError(conn *connection, action, message, kind string) error {
	if err := conn.send(action, ResponsePayload{Error: message, Kind: kind}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
