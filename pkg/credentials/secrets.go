package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ErrEmptySecret indica que o segredo existe mas não possui conteúdo textual.
var ErrEmptySecret = errors.New("credentials: secret has no string value")

// SecretsManagerResolver busca as credenciais no AWS Secrets Manager.
type SecretsManagerResolver struct {
	client   SecretsClient
	secretID string
	sslMode  string
}

func NewSecretsManagerResolver(client SecretsClient, secretID, sslMode string) *SecretsManagerResolver {
	return &SecretsManagerResolver{client: client, secretID: secretID, sslMode: sslMode}
}

func (r *SecretsManagerResolver) Resolve(ctx context.Context) (Descriptor, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.secretID),
	})
	if err != nil {
		return Descriptor{}, fmt.Errorf("erro no SecretsManager (%s): %w", r.secretID, err)
	}
	if out.SecretString == nil {
		return Descriptor{}, fmt.Errorf("segredo %s: %w", r.secretID, ErrEmptySecret)
	}
	return parseSecret([]byte(*out.SecretString), r.sslMode)
}

// SSMResolver busca o mesmo documento JSON em um parâmetro SecureString do SSM.
type SSMResolver struct {
	client  SSMClient
	name    string
	sslMode string
}

func NewSSMResolver(client SSMClient, name, sslMode string) *SSMResolver {
	return &SSMResolver{client: client, name: name, sslMode: sslMode}
}

func (r *SSMResolver) Resolve(ctx context.Context) (Descriptor, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(r.name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return Descriptor{}, fmt.Errorf("erro no SSM GetParameter (%s): %w", r.name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return Descriptor{}, fmt.Errorf("parâmetro %s: %w", r.name, ErrEmptySecret)
	}
	return parseSecret([]byte(*out.Parameter.Value), r.sslMode)
}

// secretPayload segue o formato gerado pelo RDS para segredos de banco.
// Os campos textuais precisam existir, mesmo que vazios.
type secretPayload struct {
	Host     *string    `json:"host" validate:"required"`
	DBName   *string    `json:"dbname" validate:"required"`
	Username *string    `json:"username" validate:"required"`
	Password *string    `json:"password" validate:"required"`
	Port     secretPort `json:"port"`
}

// secretPort aceita a porta como número ou como string.
type secretPort int

func (p *secretPort) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		raw = unquoted
	}
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("porta inválida %q: %w", raw, err)
	}
	*p = secretPort(n)
	return nil
}

var payloadValidator = validator.New()

func parseSecret(data []byte, sslMode string) (Descriptor, error) {
	var payload secretPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Descriptor{}, fmt.Errorf("segredo com JSON inválido: %w", err)
	}
	if err := payloadValidator.Struct(payload); err != nil {
		return Descriptor{}, fmt.Errorf("segredo incompleto: %w", err)
	}

	port := int(payload.Port)
	if port == 0 {
		port = DefaultPort
	}

	return Descriptor{
		Host:     *payload.Host,
		Database: *payload.DBName,
		User:     *payload.Username,
		Password: *payload.Password,
		Port:     port,
		SSLMode:  sslMode,
	}, nil
}
