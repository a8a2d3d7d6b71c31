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

// Package credentials resolve o descritor de conexão com o PostgreSQL.
//
// Existem duas famílias de estratégia, escolhidas uma única vez na
// inicialização a partir de config.Config.Runtime:
//
//   - local: EnvResolver, que lê DB_HOST, DB_NAME, DB_USER, DB_PASSWORD e DB_PORT.
//   - lambda: SecretsManagerResolver (padrão) ou SSMResolver, que leem um
//     documento JSON com host, dbname, username, password e port opcional.
//
// Qualquer falha na resolução é fatal para a inicialização; não existe fallback
// entre estratégias.
package credentials

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/serverless-items-api/pkg/config"
)

// DefaultPort é usado quando o segredo não informa a porta.
const DefaultPort = 5432

// Descriptor contém os dados necessários para abrir conexões com o banco.
type Descriptor struct {
	Host     string
	Database string
	User     string
	Password string
	Port     int
	SSLMode  string
}

// ConnString gera a connection string no formato keyword/value da libpq.
// Todos os valores são colocados entre aspas simples e escapados.
func (d Descriptor) ConnString() string {
	port := d.Port
	if port == 0 {
		port = DefaultPort
	}

	parts := []string{
		"host=" + quote(d.Host),
		"dbname=" + quote(d.Database),
		"user=" + quote(d.User),
		"password=" + quote(d.Password),
		"port=" + strconv.Itoa(port),
	}
	if d.SSLMode != "" {
		parts = append(parts, "sslmode="+quote(d.SSLMode))
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Resolver é a capacidade única de "resolver credenciais".
type Resolver interface {
	Resolve(ctx context.Context) (Descriptor, error)
}

// New seleciona a estratégia de credenciais de acordo com o runtime configurado.
func New(ctx context.Context, cfg *config.Config) (Resolver, error) {
	if !cfg.IsLambda() {
		return NewEnvResolver(cfg.Database), nil
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg.Secret.Region)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar configuração AWS: %w", err)
	}

	switch cfg.Secret.Source {
	case config.SecretSourceSSM:
		return NewSSMResolver(ssm.NewFromConfig(awsCfg), cfg.Secret.Name, cfg.Database.SSLMode), nil
	case config.SecretSourceSecretsManager, "":
		return NewSecretsManagerResolver(secretsmanager.NewFromConfig(awsCfg), cfg.Secret.Name, cfg.Database.SSLMode), nil
	default:
		return nil, fmt.Errorf("fonte de segredo não suportada: %s", cfg.Secret.Source)
	}
}
