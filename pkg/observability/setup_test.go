package observability

import (
	"testing"

	"github.com/raywall/serverless-items-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMetrics(t *testing.T) {
	t.Run("Disabled returns Noop", func(t *testing.T) {
		cfg := config.MetricsConf{
			Datadog: config.DatadogConf{Enabled: false},
		}

		provider, err := SetupMetrics(cfg)
		require.NoError(t, err)
		assert.IsType(t, &NoopProvider{}, provider)

		assert.NoError(t, provider.Count("x", 1, nil))
		assert.NoError(t, provider.Histogram("x", 1, nil))
		assert.NoError(t, provider.Close())
	})

	t.Run("Enabled returns Datadog", func(t *testing.T) {
		cfg := config.MetricsConf{
			Datadog: config.DatadogConf{
				Enabled:   true,
				Addr:      "localhost:8125",
				Namespace: "items_api.",
			},
		}

		// statsd sobre UDP não exige agente rodando para criar o client
		provider, err := SetupMetrics(cfg)
		require.NoError(t, err)
		assert.IsType(t, &DatadogProvider{}, provider)

		assert.NoError(t, provider.Count("http.requests", 1, []string{"status:200"}))
		assert.NoError(t, provider.Close())
	})
}
