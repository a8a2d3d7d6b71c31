package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/raywall/serverless-items-api/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(credentials.Descriptor{
		Host:     "db.local",
		Database: "items",
		User:     "app",
		Password: "s3 cr'et",
		Port:     6543,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(MinConns), cfg.MinConns)
	assert.Equal(t, int32(MaxConns), cfg.MaxConns)
	assert.Equal(t, "db.local", cfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), cfg.ConnConfig.Port)
	assert.Equal(t, "items", cfg.ConnConfig.Database)
	assert.Equal(t, "app", cfg.ConnConfig.User)
	assert.Equal(t, "s3 cr'et", cfg.ConnConfig.Password)
}

func TestParseConfig_InvalidSSLMode(t *testing.T) {
	_, err := ParseConfig(credentials.Descriptor{Host: "h", Database: "d", User: "u", SSLMode: "sometimes"})
	assert.Error(t, err)
}

func TestWithConn(t *testing.T) {
	t.Run("Devolve a conexão no sucesso", func(t *testing.T) {
		acq := &MockAcquirer{}
		called := false

		err := WithConn(context.Background(), acq, func(conn Conn) error {
			called = true
			assert.Equal(t, 1, acq.Outstanding())
			return nil
		})

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, 1, acq.Acquired())
		assert.Zero(t, acq.Outstanding())
	})

	t.Run("Devolve a conexão no erro", func(t *testing.T) {
		acq := &MockAcquirer{}
		boom := errors.New("boom")

		err := WithConn(context.Background(), acq, func(conn Conn) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Zero(t, acq.Outstanding())
	})

	t.Run("Devolve a conexão no panic", func(t *testing.T) {
		acq := &MockAcquirer{}

		assert.Panics(t, func() {
			_ = WithConn(context.Background(), acq, func(conn Conn) error {
				panic("unexpected")
			})
		})
		assert.Equal(t, 1, acq.Acquired())
		assert.Zero(t, acq.Outstanding())
	})

	t.Run("Falha ao emprestar não executa fn", func(t *testing.T) {
		acq := &MockAcquirer{Err: context.DeadlineExceeded}

		err := WithConn(context.Background(), acq, func(conn Conn) error {
			t.Fatal("fn não deveria ser chamada")
			return nil
		})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, acq.Acquired())
	})
}

func TestWithTx(t *testing.T) {
	t.Run("Commit no sucesso", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		defer mock.Close(context.Background())

		mock.ExpectBegin()
		mock.ExpectCommit()

		err = WithTx(context.Background(), mock, func(tx pgx.Tx) error { return nil })
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback no erro", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		defer mock.Close(context.Background())

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = WithTx(context.Background(), mock, func(tx pgx.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback no panic", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		defer mock.Close(context.Background())

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = WithTx(context.Background(), mock, func(tx pgx.Tx) error { panic("boom") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Erro no begin", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		defer mock.Close(context.Background())

		mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

		err = WithTx(context.Background(), mock, func(tx pgx.Tx) error {
			t.Fatal("fn não deveria ser chamada")
			return nil
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
