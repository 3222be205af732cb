package persistence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/config"
)

type recordingExecer struct {
	statements []string
	failOn     string
}

func (e *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if e.failOn != "" && strings.Contains(sql, e.failOn) {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	e.statements = append(e.statements, sql)
	return pgconn.CommandTag{}, nil
}

func TestRunMigrations_AppliesInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql": {Data: []byte("SECOND")},
		"m/0001_a.sql": {Data: []byte("FIRST")},
	}
	db := &recordingExecer{}

	require.NoError(t, runMigrations(context.Background(), db, fsys, "m", zap.NewNop()))
	assert.Equal(t, []string{"FIRST", "SECOND"}, db.statements)
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0001_a.sql": {Data: []byte("BROKEN")},
		"m/0002_b.sql": {Data: []byte("NEVER")},
	}
	db := &recordingExecer{failOn: "BROKEN"}

	err := runMigrations(context.Background(), db, fsys, "m", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_a.sql")
	assert.Empty(t, db.statements)
}

func TestRunMigrations_EmbeddedSchema(t *testing.T) {
	db := &recordingExecer{}
	require.NoError(t, RunMigrations(context.Background(), db, zap.NewNop()))
	require.NotEmpty(t, db.statements)
	assert.Contains(t, db.statements[0], "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, db.statements[0], "user_status")
}

func TestRunMigrations_NilPoolSkips(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestNewPostgres_RequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrPostgresNotConfigured)

	var pg *Postgres
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrPostgresNotConfigured)
}

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(r.Close)

	assert.NoError(t, r.Ping(context.Background()))
	mr.Close()
	assert.Error(t, r.Ping(context.Background()))
}
