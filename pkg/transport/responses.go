package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/raywall/serverless-items-api/pkg/items"
	"github.com/rs/zerolog/log"
)

// Mensagens fixas expostas pela API.
const (
	MsgWelcome          = "Welcome to the Serverless API"
	MsgItemDeleted      = "Item deleted successfully"
	MsgItemNotFound     = "Item not found"
	MsgNotFound         = "Not Found"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgInternalError    = "Internal Server Error"
)

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse é o envelope padrão de erro: {"detail": ...}.
// Detail é uma string ou uma lista de ValidationIssue.
type errorResponse struct {
	Detail interface{} `json:"detail"`
}

// ValidationIssue descreve um problema de coerção/validação da requisição (HTTP 422).
type ValidationIssue struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Erro ao encode response")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeValidation(w http.ResponseWriter, issues []ValidationIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: issues})
}

// writeInternalError responde 500 sem expor detalhes do erro.
func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(MsgInternalError))
}

// writeStoreError traduz erros do repositório para respostas HTTP.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, items.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, MsgItemNotFound)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Erro não tratado no banco de dados")
	writeInternalError(w)
}

func parseID(raw string) (int64, []ValidationIssue) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, []ValidationIssue{{
			Loc:  []interface{}{"path", "item_id"},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		}}
	}
	return id, nil
}

func newBodyValidator() *validator.Validate {
	v := validator.New()
	// Usa o nome JSON do campo nas mensagens de erro
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeInput lê o corpo JSON de Create/Update, aplicando apenas coerção de
// tipos e a obrigatoriedade de name.
func decodeInput(r *http.Request, v *validator.Validate) (items.Input, []ValidationIssue) {
	var in items.Input

	if r.Body == nil {
		return in, missingBody()
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&in); err != nil {
		return in, decodeIssues(err)
	}
	// O corpo precisa ser um único documento JSON
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return in, trailingDataIssues(dec.InputOffset())
	}

	if err := v.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return in, []ValidationIssue{{Loc: []interface{}{"body"}, Msg: err.Error(), Type: "value_error"}}
		}
		issues := make([]ValidationIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, ValidationIssue{
				Loc:  []interface{}{"body", fe.Field()},
				Msg:  "field required",
				Type: "value_error.missing",
			})
		}
		return in, issues
	}

	return in, nil
}

func missingBody() []ValidationIssue {
	return []ValidationIssue{{Loc: []interface{}{"body"}, Msg: "field required", Type: "value_error.missing"}}
}

func trailingDataIssues(offset int64) []ValidationIssue {
	return []ValidationIssue{{
		Loc:  []interface{}{"body", offset},
		Msg:  "Extra data",
		Type: "value_error.jsondecode",
	}}
}

func decodeIssues(err error) []ValidationIssue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return []ValidationIssue{{Loc: []interface{}{"body"}, Msg: "value is not a valid dict", Type: "type_error.dict"}}
		}
		return []ValidationIssue{{
			Loc:  []interface{}{"body", typeErr.Field},
			Msg:  "str type expected",
			Type: "type_error.str",
		}}
	}

	if errors.Is(err, io.EOF) {
		return missingBody()
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []ValidationIssue{{
			Loc:  []interface{}{"body", syntaxErr.Offset},
			Msg:  syntaxErr.Error(),
			Type: "value_error.jsondecode",
		}}
	}

	return []ValidationIssue{{Loc: []interface{}{"body"}, Msg: err.Error(), Type: "value_error.jsondecode"}}
}
