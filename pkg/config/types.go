package config

// Valores aceitos para Config.Runtime.
const (
	RuntimeLocal  = "local"
	RuntimeLambda = "lambda"
)

// Valores aceitos para SecretConf.Source.
const (
	SecretSourceSecretsManager = "secretsmanager"
	SecretSourceSSM            = "ssm"
)

// Config é a configuração raiz do serviço de items.
//
// Os valores são resolvidos em camadas: defaults das tags `envDefault`,
// arquivo YAML opcional (CONFIG_FILE_PATH) e por fim variáveis de ambiente.
type Config struct {
	// Runtime seleciona o modo de execução e a estratégia de credenciais.
	// Quando vazio é derivado de ExecutionEnv em Load.
	Runtime string `yaml:"runtime" env:"APP_RUNTIME" validate:"omitempty,oneof=local lambda"`
	// ExecutionEnv é o marcador definido pela plataforma Lambda.
	ExecutionEnv string `yaml:"-" env:"AWS_EXECUTION_ENV"`

	Server   ServerConf   `yaml:"server"`
	Database DatabaseConf `yaml:"database"`
	Secret   SecretConf   `yaml:"secret"`
	Logging  LoggingConf  `yaml:"logging"`
	Metrics  MetricsConf  `yaml:"metrics"`
}

type ServerConf struct {
	Port            int    `yaml:"port" env:"PORT" envDefault:"8000" validate:"gte=1,lte=65535"`
	ShutdownTimeout string `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConf guarda as credenciais usadas fora do Lambda (desenvolvimento local).
type DatabaseConf struct {
	Host     string `yaml:"host" env:"DB_HOST" envDefault:"localhost"`
	Name     string `yaml:"name" env:"DB_NAME" envDefault:"postgres"`
	User     string `yaml:"user" env:"DB_USER" envDefault:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD" envDefault:"postgres"`
	Port     int    `yaml:"port" env:"DB_PORT" envDefault:"5432" validate:"gte=1,lte=65535"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// SecretConf identifica o segredo com as credenciais do banco no modo lambda.
type SecretConf struct {
	Name   string `yaml:"name" env:"DB_SECRET_NAME"`
	Source string `yaml:"source" env:"DB_SECRET_SOURCE" envDefault:"secretsmanager" validate:"oneof=secretsmanager ssm"`
	Region string `yaml:"region" env:"AWS_REGION" envDefault:"us-east-1"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_METRICS_ENABLED" envDefault:"false"`
	Addr      string `yaml:"addr" env:"DD_AGENT_ADDR" envDefault:"127.0.0.1:8125" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"items_api."`
}

// IsLambda informa se o serviço deve rodar atrás do adaptador serverless.
func (c *Config) IsLambda() bool {
	return c.Runtime == RuntimeLambda
}
