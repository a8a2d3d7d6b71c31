// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command emulator executa a API pelo caminho do Lambda em uma máquina local:
// requisições HTTP são convertidas em eventos do API Gateway REST e entregues
// ao mesmo handler usado em produção.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raywall/serverless-items-api/pkg/app"
	"github.com/raywall/serverless-items-api/pkg/config"
	"github.com/raywall/serverless-items-api/pkg/credentials"
	"github.com/raywall/serverless-items-api/pkg/logger"
	"github.com/raywall/serverless-items-api/pkg/transport"
	"github.com/rs/zerolog/log"
)

// Injetáveis para testes
var (
	serverStarter = transport.StartHTTPServer
	newApp        = app.New
)

func main() {
	if err := run(context.Background(), os.Getenv("CONFIG_FILE_PATH"), os.Getenv("EMULATOR_STAGE")); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha ao iniciar o emulador")
	}
}

func run(ctx context.Context, cfgPath, stage string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	lg := logger.Configure(cfg.Logging)

	// Fora da AWS as credenciais sempre vêm das variáveis DB_*
	application, err := newApp(ctx, cfg, lg, credentials.NewEnvResolver(cfg.Database))
	if err != nil {
		return err
	}
	defer application.Close()

	router := transport.NewRouter(application.Items, application.Recorder())
	emulator := transport.NewGatewayEmulator(stage, transport.NewLambdaHandler(router).HandleREST)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info().Str("stage", stage).Int("port", cfg.Server.Port).Msg("Emulador do API Gateway iniciado")
	return serverStarter(sigCtx, cfg.Server.Port, emulator, cfg.Server.GetShutdownTimeout())
}
