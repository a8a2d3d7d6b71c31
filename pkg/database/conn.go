package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Conn é o subconjunto de *pgxpool.Conn usado pelos repositórios.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Acquirer entrega uma conexão exclusiva e a função que a devolve ao pool.
type Acquirer interface {
	Acquire(ctx context.Context) (Conn, func(), error)
}

// WithConn empresta uma conexão durante fn.
// A devolução ao pool acontece em qualquer saída: sucesso, erro ou panic.
func WithConn(ctx context.Context, a Acquirer, fn func(conn Conn) error) error {
	conn, release, err := a.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer release()

	return fn(conn)
}

// WithTx executa fn dentro de uma transação explícita na conexão emprestada.
// Commit apenas quando fn termina sem erro; caso contrário a transação é desfeita.
func WithTx(ctx context.Context, conn Conn, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return nil
}
