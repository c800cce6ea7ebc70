package repository

import (
	"testing"

	"github.com/rocketscienceinc/bridge-crossing-backend/testing/suite"
)

func TestGameRepository_Postgres(t *testing.T) {
	ctx, st := suite.NewPostgres(t)

	runGameRepositoryTests(ctx, t, NewPostgresGameRepository(st.Postgres))
}
