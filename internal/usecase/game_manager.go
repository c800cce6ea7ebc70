package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/bridge"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/pkg"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/repository"
)

const DefaultInviteCodeAttempts = 5

var ErrInviteCodesExhausted = fmt.Errorf("%w: no free invite code", apperror.ErrConflict)

type gameRepo interface {
	Insert(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.Game, error)
	Patch(ctx context.Context, id string, patch repository.PatchFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager is the session directory. It keeps no game state of its own:
// every operation re-reads the record and mutates it only through gameRepo.Patch.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	inviteCodeAttempts int
	newInviteCode      func() (string, error)
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, inviteCodeAttempts int) *GameManager {
	if inviteCodeAttempts <= 0 {
		inviteCodeAttempts = DefaultInviteCodeAttempts
	}

	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,

		inviteCodeAttempts: inviteCodeAttempts,
		newInviteCode:      pkg.GenerateInviteCode,
	}
}

// CreateSession seats token as purple in a new waiting session. A code the store
// reports as taken is replaced with a fresh one.
func (that *GameManager) CreateSession(ctx context.Context, token string) (*entity.Game, error) {
	log := that.logger.With("method", "CreateSession")

	if token == "" {
		return nil, apperror.ErrInvalidToken
	}

	sessionID := pkg.GenerateSessionID()

	for range that.inviteCodeAttempts {
		code, err := that.newInviteCode()
		if err != nil {
			return nil, err
		}

		game := entity.NewGame(sessionID, code, token)

		err = that.gameRepo.Insert(ctx, game)
		if errors.Is(err, repository.ErrInviteCodeTaken) {
			log.Debug("invite code taken, regenerating", "inviteCode", code)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}

		log.Info("session created", "sessionID", sessionID, "inviteCode", code)

		return game, nil
	}

	return nil, ErrInviteCodesExhausted
}

// JoinSession seats token in the session behind inviteCode. A token that is
// already seated gets its color back and nothing is written.
func (that *GameManager) JoinSession(ctx context.Context, inviteCode, token string) (*entity.Game, entity.Color, error) {
	log := that.logger.With("method", "JoinSession")

	if token == "" {
		return nil, entity.Empty, apperror.ErrInvalidToken
	}

	code := strings.ToUpper(strings.TrimSpace(inviteCode))

	game, err := that.gameRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, entity.Empty, fmt.Errorf("failed to find game by invite code: %w", err)
	}

	if color, ok := game.ColorOf(token); ok {
		return game, color, nil
	}

	var color entity.Color

	updated, err := that.gameRepo.Patch(ctx, game.ID, func(current *entity.Game) (*entity.Game, error) {
		next, seated, err := current.Seat(token)
		if err != nil {
			return nil, err
		}

		color = seated

		return next, nil
	})
	if err != nil {
		return nil, entity.Empty, fmt.Errorf("failed to join game: %w", err)
	}

	log.Info("player joined", "sessionID", updated.ID, "color", color)

	return updated, color, nil
}

func (that *GameManager) SubmitMove(ctx context.Context, sessionID, token string, from, to entity.Position) (*entity.Game, error) {
	log := that.logger.With("method", "SubmitMove")

	if token == "" {
		return nil, apperror.ErrInvalidToken
	}

	updated, err := that.gameRepo.Patch(ctx, sessionID, func(current *entity.Game) (*entity.Game, error) {
		return bridge.SubmitMove(current, token, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit move: %w", err)
	}

	log.Debug("move accepted", "sessionID", sessionID, "from", from.String(), "to", to.String())

	if updated.IsFinished() {
		log.Info("game finished", "sessionID", sessionID, "winner", updated.Winner)
	}

	return updated, nil
}

// LeaveSession removes the session whatever the token or status. The returned
// snapshot is the last state seen before deletion, or nil when there was none.
func (that *GameManager) LeaveSession(ctx context.Context, sessionID, token string) (*entity.Game, error) {
	log := that.logger.With("method", "LeaveSession")

	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Warn("failed to read game before leaving", "sessionID", sessionID, "error", err)
	}

	if err = that.gameRepo.DeleteByID(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to delete game: %w", err)
	}

	if game != nil {
		color, _ := game.ColorOf(token)
		log.Info("session removed", "sessionID", sessionID, "leaver", color)
	}

	return game, nil
}

func (that *GameManager) GetSession(ctx context.Context, sessionID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// PreviewMoves lists where the piece at from could go on the current board.
// It runs the same rules as SubmitMove and ignores whose turn it is.
func (that *GameManager) PreviewMoves(ctx context.Context, sessionID string, from entity.Position) ([]entity.Position, error) {
	if !from.InBounds() {
		return nil, apperror.ErrOutOfBounds
	}

	game, err := that.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return bridge.ValidMoves(game.Board, from), nil
}
