package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raywall/serverless-items-api/pkg/items"
	"github.com/raywall/serverless-items-api/pkg/metrics"
)

// NewRouter monta o http.Handler completo da API.
// recorder pode ser nil quando métricas estão desabilitadas.
func NewRouter(store items.Store, recorder *metrics.Recorder) http.Handler {
	h := NewItemHandler(store)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, MsgNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	})

	router.HandleFunc("/", h.Root).Methods(http.MethodGet)

	// A coleção responde com e sem a barra final
	for _, path := range []string{"/items/", "/items"} {
		router.HandleFunc(path, h.List).Methods(http.MethodGet)
		router.HandleFunc(path, h.Create).Methods(http.MethodPost)
	}

	router.HandleFunc("/items/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/items/{id}", h.Delete).Methods(http.MethodDelete)

	if recorder != nil {
		router.Use(MetricsMiddleware(recorder))
	}

	// Ordem de execução: observabilidade -> recovery -> CORS -> roteador
	var handler http.Handler = router
	handler = CORSMiddleware(handler)
	handler = RecoveryMiddleware(handler)
	handler = ObservabilityMiddleware(handler)

	return handler
}
