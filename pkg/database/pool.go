package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raywall/serverless-items-api/pkg/credentials"
)

// Limites do pool por instância do processo. Não são configuráveis.
const (
	MinConns = 1
	MaxConns = 10
)

// Pool é o único recurso mutável compartilhado entre requisições.
// A exclusividade de cada conexão emprestada é garantida pelo pgxpool.
type Pool struct {
	pool *pgxpool.Pool
}

// ParseConfig monta a configuração do pgxpool a partir do descritor resolvido.
func ParseConfig(d credentials.Descriptor) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(d.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	cfg.MinConns = MinConns
	cfg.MaxConns = MaxConns

	return cfg, nil
}

// NewPool cria o pool e valida a conectividade com um ping.
// Deve ser chamado uma única vez na inicialização.
func NewPool(ctx context.Context, d credentials.Descriptor) (*Pool, error) {
	cfg, err := ParseConfig(d)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s:%d: %w", d.Host, d.Port, err)
	}

	return &Pool{pool: pool}, nil
}

// Acquire empresta uma conexão, bloqueando até haver uma livre ou ctx ser cancelado.
func (p *Pool) Acquire(ctx context.Context) (Conn, func(), error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Release, nil
}

// Stat expõe as estatísticas do pgxpool (conexões totais, ociosas, em uso).
func (p *Pool) Stat() *pgxpool.Stat {
	return p.pool.Stat()
}

// Close encerra o pool e fecha as conexões. Pode ser chamado mais de uma vez.
func (p *Pool) Close() {
	p.pool.Close()
}
