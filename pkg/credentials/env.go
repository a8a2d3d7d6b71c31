package credentials

import (
	"context"

	"github.com/raywall/serverless-items-api/pkg/config"
)

// EnvResolver usa as credenciais de desenvolvimento já carregadas das variáveis de ambiente.
type EnvResolver struct {
	conf config.DatabaseConf
}

func NewEnvResolver(conf config.DatabaseConf) *EnvResolver {
	return &EnvResolver{conf: conf}
}

func (r *EnvResolver) Resolve(_ context.Context) (Descriptor, error) {
	return Descriptor{
		Host:     r.conf.Host,
		Database: r.conf.Name,
		User:     r.conf.User,
		Password: r.conf.Password,
		Port:     r.conf.Port,
		SSLMode:  r.conf.SSLMode,
	}, nil
}
