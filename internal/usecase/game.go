package usecase

import (
	"context"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

// GameUseCase is what the transports see: one call per session lifecycle action.
type GameUseCase interface {
	CreateSession(ctx context.Context, token string) (*entity.Game, error)
	JoinSession(ctx context.Context, inviteCode, token string) (*entity.Game, entity.Color, error)
	SubmitMove(ctx context.Context, sessionID, token string, from, to entity.Position) (*entity.Game, error)
	LeaveSession(ctx context.Context, sessionID, token string) (*entity.Game, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Game, error)
	PreviewMoves(ctx context.Context, sessionID string, from entity.Position) ([]entity.Position, error)
}

var _ GameUseCase = (*GameManager)(nil)
