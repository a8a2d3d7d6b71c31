package items

import (
	"context"
	"errors"
)

// ErrNotFound é retornado quando o id não existe ou nenhuma linha foi afetada.
var ErrNotFound = errors.New("item not found")

// Item é o registro persistido na tabela items.
type Item struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
}

// Input é o corpo aceito por Create e Update.
// Name é obrigatório; Description pode ser omitido ou null.
type Input struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// Store reúne as operações sobre items.
type Store interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, in Input) (*Item, error)
	Update(ctx context.Context, id int64, in Input) (*Item, error)
	Delete(ctx context.Context, id int64) error
}
