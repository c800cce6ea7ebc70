package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

const tokenHeader = "X-Player-Token"

type gameUseCase interface {
	CreateSession(ctx context.Context, token string) (*entity.Game, error)
	JoinSession(ctx context.Context, inviteCode, token string) (*entity.Game, entity.Color, error)
	SubmitMove(ctx context.Context, sessionID, token string, from, to entity.Position) (*entity.Game, error)
	LeaveSession(ctx context.Context, sessionID, token string) (*entity.Game, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Game, error)
	PreviewMoves(ctx context.Context, sessionID string, from entity.Position) ([]entity.Position, error)
}

type createSessionRequest struct {
	Token string `json:"token"`
}

type createSessionResponse struct {
	SessionID  string `json:"session_id"`
	InviteCode string `json:"invite_code"`
}

type joinSessionRequest struct {
	InviteCode string `json:"invite_code"`
	Token      string `json:"token"`
}

type submitMoveRequest struct {
	Token string          `json:"token"`
	From  entity.Position `json:"from"`
	To    entity.Position `json:"to"`
}

type previewMovesResponse struct {
	From  entity.Position   `json:"from"`
	Moves []entity.Position `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type handlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func newHandlers(logger *slog.Logger, game gameUseCase) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.game.CreateSession(r.Context(), req.Token)
	if err != nil {
		that.writeError(w, r, "createSession", err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:  game.ID,
		InviteCode: game.InviteCode,
	})
}

func (that *handlers) joinSession(w http.ResponseWriter, r *http.Request) {
	var req joinSessionRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, color, err := that.game.JoinSession(r.Context(), req.InviteCode, req.Token)
	if err != nil {
		that.writeError(w, r, "joinSession", err)
		return
	}

	writeJSON(w, http.StatusOK, entity.Assignment{
		SessionID: game.ID,
		Color:     color,
	})
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	game, err := that.game.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, "getSession", err)
		return
	}

	writeJSON(w, http.StatusOK, game.ViewFor(tokenFromRequest(r)))
}

func (that *handlers) leaveSession(w http.ResponseWriter, r *http.Request) {
	if _, err := that.game.LeaveSession(r.Context(), chi.URLParam(r, "id"), tokenFromRequest(r)); err != nil {
		that.writeError(w, r, "leaveSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) submitMove(w http.ResponseWriter, r *http.Request) {
	var req submitMoveRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.game.SubmitMove(r.Context(), chi.URLParam(r, "id"), req.Token, req.From, req.To)
	if err != nil {
		that.writeError(w, r, "submitMove", err)
		return
	}

	writeJSON(w, http.StatusOK, game.ViewFor(req.Token))
}

func (that *handlers) previewMoves(w http.ResponseWriter, r *http.Request) {
	from, err := positionFromQuery(r)
	if err != nil {
		that.writeError(w, r, "previewMoves", err)
		return
	}

	moves, err := that.game.PreviewMoves(r.Context(), chi.URLParam(r, "id"), from)
	if err != nil {
		that.writeError(w, r, "previewMoves", err)
		return
	}

	writeJSON(w, http.StatusOK, previewMovesResponse{
		From:  from,
		Moves: moves,
	})
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.writeError(w, r, "decode", fmt.Errorf("%w: %w", apperror.ErrInvalidArguments, err))
		return false
	}

	return true
}

// writeError maps the error kind to a status. Internal failures are logged and never echoed to the client.
func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, method string, err error) {
	kind := apperror.Kind(err)
	status := statusForKind(kind)
	message := err.Error()

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "path", r.URL.Path, "error", err)
		message = "internal error"
	} else {
		that.logger.Debug("request rejected", "method", method, "path", r.URL.Path, "kind", kind, "error", err)
	}

	writeJSON(w, status, errorResponse{
		Error: message,
		Kind:  kind,
	})
}

func statusForKind(kind string) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidState, apperror.KindNotYourTurn, apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotAParticipant:
		return http.StatusForbidden
	case apperror.KindIllegalMove:
		return http.StatusUnprocessableEntity
	case apperror.KindInvalidToken, apperror.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(tokenHeader); token != "" {
		return token
	}

	return r.URL.Query().Get("token")
}

func positionFromQuery(r *http.Request) (entity.Position, error) {
	row, err := strconv.Atoi(r.URL.Query().Get("row"))
	if err != nil {
		return entity.Position{}, fmt.Errorf("%w: row: %w", apperror.ErrInvalidArguments, errors.Unwrap(err))
	}

	col, err := strconv.Atoi(r.URL.Query().Get("col"))
	if err != nil {
		return entity.Position{}, fmt.Errorf("%w: col: %w", apperror.ErrInvalidArguments, errors.Unwrap(err))
	}

	return entity.Position{Row: row, Col: col}, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
