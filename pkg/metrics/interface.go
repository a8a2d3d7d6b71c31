package metrics

import "time"

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por outro backend sem alterar os handlers.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
	Close() error
}

// Nomes das métricas emitidas pelo middleware HTTP.
const (
	RequestCount   = "http.requests"
	RequestLatency = "http.request.latency_ms"
)

// Recorder simplifica o registro das métricas de uma requisição.
type Recorder struct {
	provider Provider
}

func NewRecorder(p Provider) *Recorder {
	return &Recorder{provider: p}
}

// ObserveRequest registra contagem e latência de uma requisição concluída.
// Falhas de envio são retornadas para o chamador decidir se loga.
func (r *Recorder) ObserveRequest(tags []string, elapsed time.Duration) error {
	if err := r.provider.Count(RequestCount, 1, tags); err != nil {
		return err
	}
	return r.provider.Histogram(RequestLatency, float64(elapsed.Milliseconds()), tags)
}
