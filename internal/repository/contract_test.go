package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runGameRepositoryTests exercises the behavior every GameRepository must share.
// Records get fresh ids and codes, so one backend instance serves all subtests.
func runGameRepositoryTests(ctx context.Context, t *testing.T, gameRepo GameRepository) {
	t.Helper()

	t.Run("Insert then lookup by id and invite code", func(t *testing.T) {
		// Given: a stored game
		game := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, game))

		// When: it is read back both ways
		byID, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)

		byCode, err := gameRepo.GetByInviteCode(ctx, game.InviteCode)
		require.NoError(t, err)

		// Then: both reads return the stored record
		assert.Equal(t, game, byID)
		assert.Equal(t, game, byCode)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		game, err := gameRepo.GetByID(ctx, pkg.GenerateSessionID())

		require.ErrorIs(t, err, ErrGameNotFound)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Nil(t, game)
	})

	t.Run("GetByInviteCode_NotFound", func(t *testing.T) {
		game, err := gameRepo.GetByInviteCode(ctx, "NOPE00")

		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, game)
	})

	t.Run("Insert rejects a taken invite code", func(t *testing.T) {
		// Given: a game holding an invite code
		first := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, first))

		// When: another game claims the same code
		second := newTestGame(t)
		second.InviteCode = first.InviteCode
		err := gameRepo.Insert(ctx, second)

		// Then: the insert fails and the code still points at the first game
		require.ErrorIs(t, err, ErrInviteCodeTaken)

		stored, err := gameRepo.GetByInviteCode(ctx, first.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, first.ID, stored.ID)

		_, err = gameRepo.GetByID(ctx, second.ID)
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("Insert rejects a duplicate id", func(t *testing.T) {
		first := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, first))

		second := newTestGame(t)
		second.ID = first.ID
		err := gameRepo.Insert(ctx, second)

		require.ErrorIs(t, err, ErrGameAlreadyExists)
	})

	t.Run("Patch stores the computed record", func(t *testing.T) {
		// Given: a waiting game
		game := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, game))

		// When: a second player is seated through Patch
		updated, err := gameRepo.Patch(ctx, game.ID, func(current *entity.Game) (*entity.Game, error) {
			next, _, err := current.Seat("token-green")
			return next, err
		})
		require.NoError(t, err)

		// Then: the returned and the stored record agree
		assert.Equal(t, entity.StatusPlaying, updated.Status)
		assert.Equal(t, "token-green", updated.PlayerGreen)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Patch_NotFound", func(t *testing.T) {
		called := false

		_, err := gameRepo.Patch(ctx, pkg.GenerateSessionID(), func(current *entity.Game) (*entity.Game, error) {
			called = true
			return current, nil
		})

		require.ErrorIs(t, err, ErrGameNotFound)
		assert.False(t, called)
	})

	t.Run("Patch error leaves the record unchanged", func(t *testing.T) {
		game := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, game))

		errRejected := errors.New("rejected")
		_, err := gameRepo.Patch(ctx, game.ID, func(current *entity.Game) (*entity.Game, error) {
			current.Status = entity.StatusFinished
			return nil, errRejected
		})
		require.ErrorIs(t, err, errRejected)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Patch cannot rename a record", func(t *testing.T) {
		game := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, game))

		_, err := gameRepo.Patch(ctx, game.ID, func(current *entity.Game) (*entity.Game, error) {
			current.InviteCode = "ZZZZZZ"
			return current, nil
		})

		require.ErrorIs(t, err, ErrImmutableGameField)
	})

	t.Run("DeleteByID removes both lookups and is idempotent", func(t *testing.T) {
		// Given: a stored game
		game := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, game))

		// When: it is deleted twice
		require.NoError(t, gameRepo.DeleteByID(ctx, game.ID))
		require.NoError(t, gameRepo.DeleteByID(ctx, game.ID))

		// Then: neither lookup finds it
		_, err := gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, ErrGameNotFound)

		_, err = gameRepo.GetByInviteCode(ctx, game.InviteCode)
		require.ErrorIs(t, err, ErrGameNotFound)

		// And: the invite code can be used again
		reused := newTestGame(t)
		reused.InviteCode = game.InviteCode
		require.NoError(t, gameRepo.Insert(ctx, reused))
	})

	t.Run("Concurrent seats admit exactly one player", func(t *testing.T) {
		// Given: a waiting game
		game := newTestGame(t)
		require.NoError(t, gameRepo.Insert(ctx, game))

		const joiners = 10

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes []string
			failures  []error
		)

		// When: several tokens race for the green seat
		for i := range joiners {
			wg.Add(1)

			go func(token string) {
				defer wg.Done()

				_, err := gameRepo.Patch(ctx, game.ID, func(current *entity.Game) (*entity.Game, error) {
					next, _, err := current.Seat(token)
					return next, err
				})

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					failures = append(failures, err)
					return
				}
				successes = append(successes, token)
			}(string(rune('a'+i)) + "-token")
		}

		wg.Wait()

		// Then: one joiner won and everyone else saw a started game
		require.Len(t, successes, 1)
		require.Len(t, failures, joiners-1)
		for _, err := range failures {
			assert.ErrorIs(t, err, apperror.ErrGameNotWaiting)
		}

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, successes[0], stored.PlayerGreen)
	})
}

func newTestGame(t *testing.T) *entity.Game {
	t.Helper()

	code, err := pkg.GenerateInviteCode()
	require.NoError(t, err)

	return entity.NewGame(pkg.GenerateSessionID(), code, "token-purple")
}
