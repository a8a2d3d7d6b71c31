// Package app reúne as dependências de processo da API (configuração, logger,
// pool de conexões, repositório e métricas) em um único contexto explícito.
package app

import (
	"context"
	"fmt"

	"github.com/raywall/serverless-items-api/pkg/config"
	"github.com/raywall/serverless-items-api/pkg/credentials"
	"github.com/raywall/serverless-items-api/pkg/database"
	"github.com/raywall/serverless-items-api/pkg/items"
	"github.com/raywall/serverless-items-api/pkg/metrics"
	"github.com/raywall/serverless-items-api/pkg/observability"
	"github.com/rs/zerolog"
)

// App é criado uma vez no boot e compartilhado por todas as requisições.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Items   items.Store
	Metrics metrics.Provider

	pool *database.Pool
}

// New resolve as credenciais, abre o pool e monta o repositório.
// Qualquer falha aqui é fatal para a inicialização.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, resolver credentials.Resolver) (*App, error) {
	descriptor, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao resolver credenciais do banco: %w", err)
	}

	logger.Info().
		Str("host", descriptor.Host).
		Str("database", descriptor.Database).
		Int("port", descriptor.Port).
		Msg("Credenciais do banco resolvidas")

	pool, err := database.NewPool(ctx, descriptor)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar pool de conexões: %w", err)
	}

	provider, err := observability.SetupMetrics(cfg.Metrics)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("falha ao configurar métricas: %w", err)
	}

	logger.Info().
		Int32("min_conns", database.MinConns).
		Int32("max_conns", database.MaxConns).
		Msg("Pool de conexões inicializado")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Items:   items.NewRepository(pool),
		Metrics: provider,
		pool:    pool,
	}, nil
}

// Recorder devolve o registrador de métricas HTTP, ou nil quando desabilitado.
func (a *App) Recorder() *metrics.Recorder {
	if a.Metrics == nil || !a.Config.Metrics.Datadog.Enabled {
		return nil
	}
	return metrics.NewRecorder(a.Metrics)
}

// Close libera o pool e o cliente de métricas. Chamado apenas no shutdown.
func (a *App) Close() error {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.Metrics != nil {
		return a.Metrics.Close()
	}
	return nil
}
