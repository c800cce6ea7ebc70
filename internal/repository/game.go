package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

const (
	gameKeyPrefix   = "game:"
	inviteKeyPrefix = "invite:"

	DefaultPatchAttempts = 8
)

var (
	ErrGameNotFound       = fmt.Errorf("game %w", apperror.ErrNotFound)
	ErrGameAlreadyExists  = errors.New("game already exists")
	ErrInviteCodeTaken    = errors.New("invite code is already taken")
	ErrImmutableGameField = errors.New("game id and invite code cannot change")
)

// PatchFunc computes the next record from the one just read. It may run more
// than once for a single Patch call, so it must not have side effects.
type PatchFunc func(current *entity.Game) (*entity.Game, error)

// GameRepository is the only place a session lives. Every implementation applies
// Patch as one atomic read-compute-commit step per record id.
type GameRepository interface {
	Insert(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.Game, error)
	Patch(ctx context.Context, id string, patch PatchFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client        *redis.Client
	patchAttempts int
}

func NewGameRepository(client *redis.Client, patchAttempts int) GameRepository {
	if patchAttempts <= 0 {
		patchAttempts = DefaultPatchAttempts
	}

	return &dbGame{
		client:        client,
		patchAttempts: patchAttempts,
	}
}

func (that *dbGame) Insert(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := gameKeyPrefix + game.ID
	inviteKey := inviteKeyPrefix + game.InviteCode

	insert := func(tx *redis.Tx) error {
		taken, err := tx.Exists(ctx, inviteKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check invite code: %w", err)
		}
		if taken > 0 {
			return ErrInviteCodeTaken
		}

		exists, err := tx.Exists(ctx, gameKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check game: %w", err)
		}
		if exists > 0 {
			return ErrGameAlreadyExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, gameJSON, 0)
			pipe.Set(ctx, inviteKey, game.ID, 0)
			return nil
		})

		return err
	}

	err = that.client.Watch(ctx, insert, gameKey, inviteKey)
	if errors.Is(err, redis.TxFailedErr) {
		// another insert touched the same invite code first
		return ErrInviteCodeTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return unmarshalGame(response)
}

func (that *dbGame) GetByInviteCode(ctx context.Context, code string) (*entity.Game, error) {
	id, err := that.client.Get(ctx, inviteKeyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by invite code: %w", err)
	}

	return that.GetByID(ctx, id)
}

// Patch runs patch inside WATCH/MULTI. A commit that loses the race re-reads the
// record and runs patch again, so the caller always sees a decision made on fresh state.
func (that *dbGame) Patch(ctx context.Context, id string, patch PatchFunc) (*entity.Game, error) {
	gameKey := gameKeyPrefix + id

	var updated *entity.Game

	apply := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, gameKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}

		current, err := unmarshalGame(response)
		if err != nil {
			return err
		}

		next, err := applyPatch(current, patch)
		if err != nil {
			return err
		}

		gameJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, gameJSON, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = next

		return nil
	}

	for range that.patchAttempts {
		err := that.client.Watch(ctx, apply, gameKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: game %s", apperror.ErrConflict, id)
}

// DeleteByID removes the game and its invite code. Deleting a missing game is a no-op.
func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	game, err := that.GetByID(ctx, id)
	if errors.Is(err, ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = that.client.Del(ctx, gameKeyPrefix+id, inviteKeyPrefix+game.InviteCode).Err(); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}

func unmarshalGame(data []byte) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// applyPatch hands patch its own copy and rejects results that rename the record.
func applyPatch(current *entity.Game, patch PatchFunc) (*entity.Game, error) {
	next, err := patch(current.Clone())
	if err != nil {
		return nil, err
	}

	if next.ID != current.ID || next.InviteCode != current.InviteCode {
		return nil, ErrImmutableGameField
	}

	return next, nil
}
