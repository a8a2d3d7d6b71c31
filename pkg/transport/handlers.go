package transport

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/raywall/serverless-items-api/pkg/items"
)

// ItemHandler expõe as operações de items.Store via HTTP.
type ItemHandler struct {
	store    items.Store
	validate *validator.Validate
}

func NewItemHandler(store items.Store) *ItemHandler {
	return &ItemHandler{
		store:    store,
		validate: newBodyValidator(),
	}
}

func (h *ItemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgWelcome})
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, issues := parseID(mux.Vars(r)["id"])
	if issues != nil {
		writeValidation(w, issues)
		return
	}

	item, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, issues := decodeInput(r, h.validate)
	if issues != nil {
		writeValidation(w, issues)
		return
	}

	item, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	// Problemas no path e no corpo são reportados juntos
	id, pathIssues := parseID(mux.Vars(r)["id"])
	in, bodyIssues := decodeInput(r, h.validate)
	if issues := append(pathIssues, bodyIssues...); len(issues) > 0 {
		writeValidation(w, issues)
		return
	}

	item, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, issues := parseID(mux.Vars(r)["id"])
	if issues != nil {
		writeValidation(w, issues)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgItemDeleted})
}
