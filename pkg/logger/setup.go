package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/serverless-items-api/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure inicializa o logger global a partir da configuração carregada.
// O logger retornado também passa a ser o logger padrão de zerolog/log,
// usado pelos handlers via log.Ctx quando não há logger no contexto.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return configure(cfg, os.Stdout)
}

func configure(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção (CloudWatch), console "bonito" para uso local
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "items-api").
		Logger()

	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	return logger
}
