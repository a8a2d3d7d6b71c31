package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/raywall/serverless-items-api/pkg/database"
)

const (
	listSQL   = `SELECT id, name, description FROM items`
	getSQL    = `SELECT id, name, description FROM items WHERE id = $1`
	createSQL = `INSERT INTO items (name, description) VALUES ($1, $2) RETURNING id, name, description`
	updateSQL = `UPDATE items SET name = $1, description = $2 WHERE id = $3 RETURNING id, name, description`
	deleteSQL = `DELETE FROM items WHERE id = $1`
)

// Repository implementa Store sobre PostgreSQL.
// Cada operação empresta uma conexão do pool e executa um único comando parametrizado.
type Repository struct {
	db database.Acquirer
}

func NewRepository(db database.Acquirer) *Repository {
	return &Repository{db: db}
}

// List retorna todos os items; nunca retorna nil em caso de sucesso.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	var result []Item
	err := database.WithConn(ctx, r.db, func(conn database.Conn) error {
		rows, err := conn.Query(ctx, listSQL)
		if err != nil {
			return err
		}
		result, err = pgx.CollectRows(rows, pgx.RowToStructByName[Item])
		return err
	})
	if err != nil {
		return nil, wrap("list", err)
	}
	if result == nil {
		result = []Item{}
	}
	return result, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Item, error) {
	var item *Item
	err := database.WithConn(ctx, r.db, func(conn database.Conn) error {
		rows, err := conn.Query(ctx, getSQL, id)
		if err != nil {
			return err
		}
		item, err = collectOne(rows)
		return err
	})
	if err != nil {
		return nil, wrap("get", err)
	}
	return item, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (*Item, error) {
	var item *Item
	err := database.WithConn(ctx, r.db, func(conn database.Conn) error {
		return database.WithTx(ctx, conn, func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, createSQL, nameOf(in), descriptionOf(in))
			if err != nil {
				return err
			}
			item, err = collectOne(rows)
			return err
		})
	})
	if err != nil {
		return nil, wrap("create", err)
	}
	return item, nil
}

// Update sobrescreve todos os campos do item. Sem linha correspondente nada é gravado.
func (r *Repository) Update(ctx context.Context, id int64, in Input) (*Item, error) {
	var item *Item
	err := database.WithConn(ctx, r.db, func(conn database.Conn) error {
		return database.WithTx(ctx, conn, func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, updateSQL, nameOf(in), descriptionOf(in), id)
			if err != nil {
				return err
			}
			item, err = collectOne(rows)
			return err
		})
	})
	if err != nil {
		return nil, wrap("update", err)
	}
	return item, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	err := database.WithConn(ctx, r.db, func(conn database.Conn) error {
		return database.WithTx(ctx, conn, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, deleteSQL, id)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
			return nil
		})
	})
	if err != nil {
		return wrap("delete", err)
	}
	return nil
}

// collectOne mapeia a primeira linha pelo nome das colunas.
func collectOne(rows pgx.Rows) (*Item, error) {
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Item])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

func wrap(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("items: %s: %w", op, err)
}

func nameOf(in Input) string {
	if in.Name == nil {
		return ""
	}
	return *in.Name
}

// descriptionOf converte a descrição opcional em NULL quando ausente.
func descriptionOf(in Input) any {
	if in.Description == nil {
		return nil
	}
	return *in.Description
}
