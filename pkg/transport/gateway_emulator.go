package transport

import (
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RESTInvoker é a assinatura de uma função Lambda integrada ao API Gateway REST.
type RESTInvoker func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// GatewayEmulator imita localmente a integração proxy do API Gateway REST:
// cada requisição HTTP vira um evento v1 entregue à função.
type GatewayEmulator struct {
	stage  string
	invoke RESTInvoker
}

func NewGatewayEmulator(stage string, invoke RESTInvoker) *GatewayEmulator {
	if stage == "" {
		stage = "local"
	}
	return &GatewayEmulator{stage: stage, invoke: invoke}
}

func (g *GatewayEmulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	event, err := g.toEvent(r)
	if err != nil {
		log.Error().Err(err).Msg("Erro ao ler corpo da requisição")
		writeGatewayError(w, http.StatusBadRequest)
		return
	}

	resp, err := g.invoke(r.Context(), event)
	if err != nil {
		// O API Gateway responde 502 quando a função falha
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Erro na invocação da função")
		writeGatewayError(w, http.StatusBadGateway)
		return
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			log.Error().Err(err).Msg("Resposta base64 inválida")
			writeGatewayError(w, http.StatusBadGateway)
			return
		}
		body = decoded
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		w.Header()[http.CanonicalHeaderKey(k)] = vs
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (g *GatewayEmulator) toEvent(r *http.Request) (events.APIGatewayProxyRequest, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	event := events.APIGatewayProxyRequest{
		Resource:                        r.URL.Path,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         make(map[string]string, len(r.Header)),
		MultiValueHeaders:               make(map[string][]string, len(r.Header)),
		QueryStringParameters:           map[string]string{},
		MultiValueQueryStringParameters: map[string][]string{},
	}

	for k, vs := range r.Header {
		event.Headers[k] = vs[len(vs)-1]
		event.MultiValueHeaders[k] = vs
	}
	for k, vs := range r.URL.Query() {
		event.QueryStringParameters[k] = vs[len(vs)-1]
		event.MultiValueQueryStringParameters[k] = vs
	}

	if utf8.Valid(raw) {
		event.Body = string(raw)
	} else {
		event.Body = base64.StdEncoding.EncodeToString(raw)
		event.IsBase64Encoded = true
	}

	sourceIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		sourceIP = host
	}

	event.RequestContext = events.APIGatewayProxyRequestContext{
		RequestID:  uuid.NewString(),
		Stage:      g.stage,
		HTTPMethod: r.Method,
		Path:       "/" + g.stage + r.URL.Path,
		Identity:   events.APIGatewayRequestIdentity{SourceIP: sourceIP},
	}

	return event, nil
}

func writeGatewayError(w http.ResponseWriter, status int) {
	msg := "Internal server error"
	if status == http.StatusBadRequest {
		msg = "Bad request"
	}
	writeJSON(w, status, messageResponse{Message: msg})
}
