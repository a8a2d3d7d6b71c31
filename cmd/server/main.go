package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/serverless-items-api/pkg/app"
	"github.com/raywall/serverless-items-api/pkg/config"
	"github.com/raywall/serverless-items-api/pkg/credentials"
	"github.com/raywall/serverless-items-api/pkg/logger"
	"github.com/raywall/serverless-items-api/pkg/transport"
	"github.com/rs/zerolog/log"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
	newResolver   = credentials.New
	newApp        = app.New
)

func init() {
	// O arquivo é opcional; sem ele valem defaults + variáveis de ambiente
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	if err := run(context.Background(), configPath); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha na inicialização")
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	// 1. Carrega configuração
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// 2. Logger global
	lg := logger.Configure(cfg.Logging)
	lg.Info().Str("runtime", cfg.Runtime).Msg("Configuração carregada")

	// 3. Estratégia de credenciais, escolhida uma única vez
	resolver, err := newResolver(ctx, cfg)
	if err != nil {
		return err
	}

	// 4. Contexto da aplicação (pool, repositório, métricas)
	application, err := newApp(ctx, cfg, lg, resolver)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			lg.Warn().Err(err).Msg("Erro ao liberar recursos")
		}
	}()

	handler := transport.NewRouter(application.Items, application.Recorder())

	// 5. Seleciona o runtime
	if cfg.IsLambda() {
		// lambda.Start não retorna: o pool vive enquanto o ambiente de execução
		// existir e é descartado junto com ele. O Close acima só roda no modo local.
		lambdaStarter(transport.NewLambdaHandler(handler).Handle)
		return nil
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serverStarter(sigCtx, cfg.Server.Port, handler, cfg.Server.GetShutdownTimeout())
}
