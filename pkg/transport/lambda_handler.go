package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaHandler adapta eventos do API Gateway para um http.Handler comum,
// de modo que o mesmo roteador atende o servidor local e a função Lambda.
type LambdaHandler struct {
	handler http.Handler
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(handler http.Handler) *LambdaHandler {
	return &LambdaHandler{handler: handler}
}

// Handle aceita tanto o payload REST (v1) quanto o HTTP API (v2),
// identificados pelo campo "version".
func (h *LambdaHandler) Handle(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("evento lambda inválido: %w", err)
	}

	if probe.Version == "2.0" {
		var req events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("evento HTTP API inválido: %w", err)
		}
		return h.HandleHTTPAPI(ctx, req)
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("evento REST API inválido: %w", err)
	}
	return h.HandleREST(ctx, req)
}

// HandleREST processa eventos do API Gateway REST (payload v1).
func (h *LambdaHandler) HandleREST(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := url.Values{}
	if len(req.MultiValueQueryStringParameters) > 0 {
		for k, vs := range req.MultiValueQueryStringParameters {
			query[k] = append(query[k], vs...)
		}
	} else {
		for k, v := range req.QueryStringParameters {
			query.Set(k, v)
		}
	}

	headers := http.Header{}
	if len(req.MultiValueHeaders) > 0 {
		for k, vs := range req.MultiValueHeaders {
			for _, v := range vs {
				headers.Add(k, v)
			}
		}
	} else {
		for k, v := range req.Headers {
			headers.Set(k, v)
		}
	}

	httpReq, err := h.newRequest(ctx, req.HTTPMethod, req.Path, query.Encode(), headers, req.Body, req.IsBase64Encoded)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	httpReq.RemoteAddr = req.RequestContext.Identity.SourceIP

	rec := h.serve(httpReq)
	body, isBase64 := rec.encodedBody()

	return events.APIGatewayProxyResponse{
		StatusCode:        rec.status,
		Headers:           singleValueHeaders(rec.header),
		MultiValueHeaders: rec.header,
		Body:              body,
		IsBase64Encoded:   isBase64,
	}, nil
}

// HandleHTTPAPI processa eventos do API Gateway HTTP API (payload v2).
func (h *LambdaHandler) HandleHTTPAPI(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	headers := http.Header{}
	for k, v := range req.Headers {
		headers.Set(k, v)
	}
	if len(req.Cookies) > 0 {
		headers.Set("Cookie", strings.Join(req.Cookies, "; "))
	}

	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}

	httpReq, err := h.newRequest(ctx, req.RequestContext.HTTP.Method, path, req.RawQueryString, headers, req.Body, req.IsBase64Encoded)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	httpReq.RemoteAddr = req.RequestContext.HTTP.SourceIP

	rec := h.serve(httpReq)
	body, isBase64 := rec.encodedBody()

	cookies := rec.header.Values("Set-Cookie")
	respHeaders := rec.header.Clone()
	respHeaders.Del("Set-Cookie")

	respSingle := make(map[string]string, len(respHeaders))
	for k, vs := range respHeaders {
		respSingle[k] = strings.Join(vs, ",")
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode:      rec.status,
		Headers:         respSingle,
		Body:            body,
		IsBase64Encoded: isBase64,
		Cookies:         cookies,
	}, nil
}

func (h *LambdaHandler) newRequest(ctx context.Context, method, path, rawQuery string, headers http.Header, body string, isBase64 bool) (*http.Request, error) {
	payload := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("body base64 inválido: %w", err)
		}
		payload = decoded
	}

	if path == "" {
		path = "/"
	}
	u := &url.URL{Path: path, RawQuery: rawQuery}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("erro ao montar requisição HTTP: %w", err)
	}
	req.Header = headers
	req.Host = headers.Get("Host")
	req.RequestURI = u.RequestURI()

	// O id da invocação serve de correlation id quando o cliente não envia um
	if req.Header.Get(HeaderCorrelationID) == "" {
		if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
			req.Header.Set(HeaderCorrelationID, lc.AwsRequestID)
		}
	}

	return req, nil
}

func (h *LambdaHandler) serve(req *http.Request) *responseBuffer {
	rec := newResponseBuffer()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func singleValueHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}

// responseBuffer é um http.ResponseWriter em memória.
type responseBuffer struct {
	header      http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}, status: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.status = code
	b.wroteHeader = true
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

// encodedBody devolve o corpo como texto, ou base64 quando não for UTF-8 válido.
func (b *responseBuffer) encodedBody() (string, bool) {
	raw := b.body.Bytes()
	if utf8.Valid(raw) {
		return string(raw), false
	}
	return base64.StdEncoding.EncodeToString(raw), true
}
