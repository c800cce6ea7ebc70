package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
)

const (
	uniqueViolation      = "23505"
	inviteCodeConstraint = "games_invite_code_key"
)

type pgGame struct {
	conn *sql.DB
}

// NewPostgresGameRepository expects the games table created by storage.PostgresStorage.Init.
func NewPostgresGameRepository(conn *sql.DB) GameRepository {
	return &pgGame{
		conn: conn,
	}
}

func (that *pgGame) Insert(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	query := `INSERT INTO games (id, invite_code, data) VALUES ($1, $2, $3)`

	_, err = that.conn.ExecContext(ctx, query, game.ID, game.InviteCode, gameJSON)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == inviteCodeConstraint {
			return ErrInviteCodeTaken
		}

		return ErrGameAlreadyExists
	}

	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

func (that *pgGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	query := `SELECT data FROM games WHERE id = $1`

	return that.scanGame(that.conn.QueryRowContext(ctx, query, id))
}

func (that *pgGame) GetByInviteCode(ctx context.Context, code string) (*entity.Game, error) {
	query := `SELECT data FROM games WHERE invite_code = $1`

	return that.scanGame(that.conn.QueryRowContext(ctx, query, code))
}

// Patch locks the row with SELECT ... FOR UPDATE, so concurrent patches on one id run one after another.
func (that *pgGame) Patch(ctx context.Context, id string, patch PatchFunc) (*entity.Game, error) {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	current, err := that.scanGame(tx.QueryRowContext(ctx, `SELECT data FROM games WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	next, err := applyPatch(current, patch)
	if err != nil {
		return nil, err
	}

	gameJSON, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE games SET data = $2 WHERE id = $1`, id, gameJSON); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game: %w", err)
	}

	return next, nil
}

func (that *pgGame) DeleteByID(ctx context.Context, id string) error {
	if _, err := that.conn.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}

func (that *pgGame) scanGame(row *sql.Row) (*entity.Game, error) {
	var data []byte

	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return unmarshalGame(data)
}
