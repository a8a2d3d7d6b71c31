package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load monta a configuração do serviço.
//
// Ordem de precedência (do mais fraco para o mais forte):
//  1. tags envDefault
//  2. arquivo YAML em path (ignorado quando path é vazio), com ${env.NOME}
//     expandido nos valores
//  3. variáveis de ambiente
//
// O runtime é resolvido uma única vez aqui: sem APP_RUNTIME, a presença de
// AWS_EXECUTION_ENV indica execução no Lambda.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		if err := Interpolate(cfg); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Runtime == "" {
		cfg.Runtime = RuntimeLocal
		if cfg.ExecutionEnv != "" {
			cfg.Runtime = RuntimeLambda
		}
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("erro ao parsear yaml de configuração: %w", err)
	}
	return nil
}

// GetShutdownTimeout retorna o tempo máximo de drenagem do servidor HTTP.
func (s ServerConf) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
