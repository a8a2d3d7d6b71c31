package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/raywall/serverless-items-api/pkg/items"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore é uma implementação em memória de items.Store com ids gerados
// sequencialmente, como uma coluna identity.
type memStore struct {
	mu   sync.Mutex
	next int64
	rows map[int64]items.Item
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]items.Item)}
}

func (s *memStore) List(_ context.Context) ([]items.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]items.Item, 0, len(s.rows))
	for _, it := range s.rows {
		out = append(out, it)
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, id int64) (*items.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.rows[id]
	if !ok {
		return nil, items.ErrNotFound
	}
	return &it, nil
}

func (s *memStore) Create(_ context.Context, in items.Input) (*items.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	it := items.Item{ID: s.next, Name: *in.Name, Description: in.Description}
	s.rows[it.ID] = it
	return &it, nil
}

func (s *memStore) Update(_ context.Context, id int64, in items.Input) (*items.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return nil, items.ErrNotFound
	}
	it := items.Item{ID: id, Name: *in.Name, Description: in.Description}
	s.rows[id] = it
	return &it, nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return items.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeItem(t *testing.T, rr *httptest.ResponseRecorder) items.Item {
	t.Helper()
	var it items.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &it))
	return it
}

func TestRoot(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	rr := doRequest(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Serverless API"}`, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestCreateItem(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	rr := doRequest(t, h, http.MethodPost, "/items/", `{"name":"Test Item","description":"This is a test"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body, "id")
	assert.Equal(t, "Test Item", body["name"])
	assert.Equal(t, "This is a test", body["description"])
}

func TestCreateWithoutDescription(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	rr := doRequest(t, h, http.MethodPost, "/items", `{"name":"Only name"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":1,"name":"Only name","description":null}`, rr.Body.String())
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	pairs := []struct {
		name        string
		description *string
	}{
		{"a", nil},
		{"", nil},
		{"with desc", strPtr("desc")},
		{"unicode ção", strPtr("")},
		{`quote "x"`, strPtr("line\nbreak")},
	}

	for i, p := range pairs {
		t.Run(fmt.Sprintf("par %d", i), func(t *testing.T) {
			payload, err := json.Marshal(items.Input{Name: &p.name, Description: p.description})
			require.NoError(t, err)

			created := doRequest(t, h, http.MethodPost, "/items/", string(payload))
			require.Equal(t, http.StatusOK, created.Code)
			want := decodeItem(t, created)

			fetched := doRequest(t, h, http.MethodGet, fmt.Sprintf("/items/%d", want.ID), "")
			require.Equal(t, http.StatusOK, fetched.Code)
			got := decodeItem(t, fetched)

			assert.Equal(t, want, got)
			assert.Equal(t, p.name, got.Name)
			assert.Equal(t, p.description, got.Description)
		})
	}
}

func TestGetUnknownItem(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	rr := doRequest(t, h, http.MethodGet, "/items/99999", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail":"Item not found"}`, rr.Body.String())
}

func TestUpdateItem(t *testing.T) {
	store := newMemStore()
	h := NewRouter(store, nil)

	created := decodeItem(t, doRequest(t, h, http.MethodPost, "/items/", `{"name":"old","description":"d"}`))

	t.Run("Sobrescreve todos os campos", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPut, fmt.Sprintf("/items/%d", created.ID), `{"name":"new"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"name":"new","description":null}`, created.ID), rr.Body.String())
	})

	t.Run("Id inexistente não altera nada", func(t *testing.T) {
		before, _ := store.List(context.Background())

		rr := doRequest(t, h, http.MethodPut, "/items/424242", `{"name":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"detail":"Item not found"}`, rr.Body.String())

		after, _ := store.List(context.Background())
		assert.Equal(t, before, after)
	})
}

func TestDeleteTwice(t *testing.T) {
	h := NewRouter(newMemStore(), nil)
	created := decodeItem(t, doRequest(t, h, http.MethodPost, "/items/", `{"name":"tmp"}`))
	path := fmt.Sprintf("/items/%d", created.ID)

	first := doRequest(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"message":"Item deleted successfully"}`, first.Body.String())

	second := doRequest(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, second.Code)
	assert.JSONEq(t, `{"detail":"Item not found"}`, second.Body.String())

	get := doRequest(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, get.Code)
}

func TestListItems(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	t.Run("Vazio retorna array", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodGet, "/items/", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Retorna os vivos sem duplicatas", func(t *testing.T) {
		var ids []int64
		for _, name := range []string{"a", "b", "c"} {
			it := decodeItem(t, doRequest(t, h, http.MethodPost, "/items/", fmt.Sprintf(`{"name":%q}`, name)))
			ids = append(ids, it.ID)
		}
		doRequest(t, h, http.MethodDelete, fmt.Sprintf("/items/%d", ids[1]), "")

		rr := doRequest(t, h, http.MethodGet, "/items", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var list []items.Item
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		got := make([]int64, 0, len(list))
		for _, it := range list {
			got = append(got, it.ID)
		}
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		assert.Equal(t, []int64{ids[0], ids[2]}, got)
	})
}

func TestValidationErrors(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   string
	}{
		{
			name: "Name ausente", method: http.MethodPost, path: "/items/", body: `{"description":"x"}`,
			want: `{"detail":[{"loc":["body","name"],"msg":"field required","type":"value_error.missing"}]}`,
		},
		{
			name: "Name null", method: http.MethodPost, path: "/items/", body: `{"name":null}`,
			want: `{"detail":[{"loc":["body","name"],"msg":"field required","type":"value_error.missing"}]}`,
		},
		{
			name: "Name com tipo errado", method: http.MethodPost, path: "/items/", body: `{"name":5}`,
			want: `{"detail":[{"loc":["body","name"],"msg":"str type expected","type":"type_error.str"}]}`,
		},
		{
			name: "Corpo vazio", method: http.MethodPost, path: "/items/", body: "",
			want: `{"detail":[{"loc":["body"],"msg":"field required","type":"value_error.missing"}]}`,
		},
		{
			name: "Corpo não é objeto", method: http.MethodPost, path: "/items/", body: `[1,2]`,
			want: `{"detail":[{"loc":["body"],"msg":"value is not a valid dict","type":"type_error.dict"}]}`,
		},
		{
			name: "Id não numérico", method: http.MethodGet, path: "/items/abc",
			want: `{"detail":[{"loc":["path","item_id"],"msg":"value is not a valid integer","type":"type_error.integer"}]}`,
		},
		{
			name: "Update com path e corpo inválidos", method: http.MethodPut, path: "/items/abc", body: `{}`,
			want: `{"detail":[` +
				`{"loc":["path","item_id"],"msg":"value is not a valid integer","type":"type_error.integer"},` +
				`{"loc":["body","name"],"msg":"field required","type":"value_error.missing"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.JSONEq(t, tt.want, rr.Body.String())
		})
	}

	t.Run("Dados após o documento JSON", func(t *testing.T) {
		store := newMemStore()
		h := NewRouter(store, nil)

		for _, body := range []string{
			`{"name":"a"} garbage`,
			`{"name":"a"}{"name":"b"}`,
			`{"name":"a"} []`,
		} {
			rr := doRequest(t, h, http.MethodPost, "/items/", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, body)
			assert.Contains(t, rr.Body.String(), `"value_error.jsondecode"`, body)

			rr = doRequest(t, h, http.MethodPut, "/items/1", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, body)
		}

		list, err := store.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list, "nenhum item deveria ter sido gravado")
	})

	t.Run("Espaços após o documento são aceitos", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPost, "/items/", "{\"name\":\"a\"}\n  \t")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("JSON malformado", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPost, "/items/", `{"name":`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `"detail"`)
	})
}

func TestRoutingErrors(t *testing.T) {
	h := NewRouter(newMemStore(), nil)

	t.Run("Rota inexistente", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodGet, "/users", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"detail":"Not Found"}`, rr.Body.String())
	})

	t.Run("Método não permitido", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodPatch, "/items/1", `{"name":"x"}`)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rr.Body.String())
	})
}

func TestUnhandledStoreErrors(t *testing.T) {
	store := &items.MockStore{
		ListFn: func(ctx context.Context) ([]items.Item, error) {
			return nil, errors.New("connection refused")
		},
		GetFn: func(ctx context.Context, id int64) (*items.Item, error) {
			panic("driver bug")
		},
	}
	h := NewRouter(store, nil)

	t.Run("Erro do banco vira 500 sem detalhes", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodGet, "/items/", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal Server Error", rr.Body.String())
		assert.NotContains(t, rr.Body.String(), "connection refused")
	})

	t.Run("Panic vira 500", func(t *testing.T) {
		rr := doRequest(t, h, http.MethodGet, "/items/1", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal Server Error", rr.Body.String())
	})
}

func strPtr(s string) *string { return &s }
