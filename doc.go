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

// Package itemsapi é uma API HTTP mínima de CRUD sobre a tabela items do
// PostgreSQL, que roda como processo HTTP local ou como função AWS Lambda
// atrás do API Gateway.
//
// Visão Geral:
// O mesmo roteador atende os dois runtimes. O runtime é escolhido uma única vez
// na inicialização (APP_RUNTIME, ou a presença de AWS_EXECUTION_ENV) e define
// também de onde vêm as credenciais do banco.
//
// Sub-Pacotes Principais:
//
// 1. pkg/config:
//   - Configuração em camadas: tags envDefault, arquivo YAML opcional
//     (CONFIG_FILE_PATH) com placeholders ${env.NOME}, e variáveis de ambiente.
//   - Validação com go-playground/validator.
//
// 2. pkg/credentials:
//   - EnvResolver (DB_HOST, DB_NAME, DB_USER, DB_PASSWORD, DB_PORT) para uso local.
//   - SecretsManagerResolver e SSMResolver para o Lambda.
//
// 3. pkg/database:
//   - Pool pgxpool com no mínimo 1 e no máximo 10 conexões.
//   - WithConn empresta uma conexão por operação e sempre a devolve.
//   - WithTx confirma escritas com sucesso e desfaz as que falham.
//
// 4. pkg/items:
//   - Repository com List, Get, Create, Update e Delete em SQL parametrizado.
//
// 5. pkg/transport:
//   - Roteador gorilla/mux, middlewares de observabilidade, recovery, CORS e métricas.
//   - LambdaHandler para eventos REST (v1) e HTTP API (v2) do API Gateway.
//   - GatewayEmulator para exercitar o caminho do Lambda localmente.
//
// Endpoints:
//
//	GET    /             {"message":"Welcome to the Serverless API"}
//	GET    /items/       lista de items
//	POST   /items/       cria um item ({"name": "...", "description": "..."})
//	GET    /items/{id}   busca um item
//	PUT    /items/{id}   substitui name e description
//	DELETE /items/{id}   {"message":"Item deleted successfully"}
//
// Exemplo de Início Rápido (servidor local):
//
//	export DB_HOST=localhost DB_NAME=postgres DB_USER=postgres DB_PASSWORD=postgres
//	go run ./cmd/server
//
//	curl -X POST localhost:8000/items/ -d '{"name":"Test Item","description":"This is a test"}'
package itemsapi
