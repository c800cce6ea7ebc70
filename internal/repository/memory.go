package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

// memoryGame keeps records for a single process. Values are stored as copies,
// so nothing outside the repository can change a record without Patch.
type memoryGame struct {
	mu      sync.Mutex
	games   map[string]entity.Game
	invites map[string]string
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games:   make(map[string]entity.Game),
		invites: make(map[string]string),
	}
}

func (that *memoryGame) Insert(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.invites[game.InviteCode]; ok {
		return ErrInviteCodeTaken
	}

	if _, ok := that.games[game.ID]; ok {
		return ErrGameAlreadyExists
	}

	that.games[game.ID] = *game
	that.invites[game.InviteCode] = game.ID

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	return &game, nil
}

func (that *memoryGame) GetByInviteCode(ctx context.Context, code string) (*entity.Game, error) {
	that.mu.Lock()
	id, ok := that.invites[code]
	that.mu.Unlock()

	if !ok {
		return nil, ErrGameNotFound
	}

	return that.GetByID(ctx, id)
}

func (that *memoryGame) Patch(_ context.Context, id string, patch PatchFunc) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	current, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	next, err := applyPatch(&current, patch)
	if err != nil {
		return nil, err
	}

	that.games[id] = *next

	return next.Clone(), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil
	}

	delete(that.invites, game.InviteCode)
	delete(that.games, id)

	return nil
}
