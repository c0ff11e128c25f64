package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itemmigrations "github.com/ghuser/expense-tracker/migrations/item"
	"github.com/ghuser/expense-tracker/pkg/app"
	"github.com/ghuser/expense-tracker/pkg/auth"
	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/services/item/application/api"
)

type itemJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Item        string  `json:"item"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	DateAdded   string  `json:"date_added"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	a := &app.Application{
		Db:     database.NewTestDB(t, itemmigrations.SQLite()),
		Logger: logger.Discard(),
	}
	r := chi.NewRouter()
	api.ItemRoutes(r, a)
	return &testServer{t: t, router: r}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) create(body string) itemJSON {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/item", body)
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[itemJSON](s.t, rr)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func itemPath(id int64) string {
	return "/item/" + strconv.FormatInt(id, 10)
}

const milk = `{"name":"Weekly groceries","description":"semi-skimmed","item":"Milk","price":2.5,"quantity":4,"category":"food","date_added":"2024-03-01"}`

func TestHome(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to the expense tracker API!"}`, rr.Body.String())
}

func TestEmptyStore(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(http.MethodGet, "/chart-data", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"labels":[],"values":[]}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/item/99999", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, rr.Body.String())
}

func TestCreateAndGet(t *testing.T) {
	s := newTestServer(t)

	created := s.create(milk)
	assert.NotZero(t, created.ID)
	assert.Equal(t, itemJSON{
		ID: created.ID, Name: "Weekly groceries", Description: "semi-skimmed", Item: "Milk",
		Price: 2.5, Quantity: 4, Category: "food", DateAdded: "2024-03-01",
	}, created)

	rr := s.do(http.MethodGet, itemPath(created.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode[itemJSON](t, rr))
}

func TestCreate_ProjectionFieldOrder(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/item", milk)
	require.Equal(t, http.StatusCreated, rr.Code)

	keys := []string{`"id"`, `"name"`, `"description"`, `"item"`, `"price"`, `"quantity"`, `"category"`, `"date_added"`}
	body := rr.Body.Bytes()
	last := -1
	for _, k := range keys {
		i := bytes.Index(body, []byte(k))
		require.Greater(t, i, last, "key %s out of order in %s", k, body)
		last = i
	}
}

func TestCreate_Defaults(t *testing.T) {
	s := newTestServer(t)

	created := s.create(`{"name":"Lunch","item":"Sandwich","price":4,"quantity":1}`)
	assert.Equal(t, "uncategorized", created.Category)
	assert.Equal(t, "", created.Description)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), created.DateAdded)
}

func TestCreate_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"item":"x","price":1,"quantity":1}`, "name"},
		{"missing item", `{"name":"x","price":1,"quantity":1}`, "item"},
		{"missing price", `{"name":"x","item":"x","quantity":1}`, "price"},
		{"missing quantity", `{"name":"x","item":"x","price":1}`, "quantity"},
		{"negative price", `{"name":"x","item":"x","price":-1,"quantity":1}`, "price"},
		{"negative quantity", `{"name":"x","item":"x","price":1,"quantity":-1}`, "quantity"},
		{"price wrong type", `{"name":"x","item":"x","price":"cheap","quantity":1}`, "price"},
		{"quantity not integer", `{"name":"x","item":"x","price":1,"quantity":1.5}`, "quantity"},
		{"bad date", `{"name":"x","item":"x","price":1,"quantity":1,"date_added":"2024-02-30"}`, "date_added"},
		{"long category", `{"name":"x","item":"x","price":1,"quantity":1,"category":"` + string(bytes.Repeat([]byte("c"), 51)) + `"}`, "category"},
		{"blank name", `{"name":"   ","item":"x","price":1,"quantity":1}`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(http.MethodPost, "/item", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			var body struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "Validation failed", body.Error)
			assert.NotEmpty(t, body.Fields[tt.field], "fields: %v", body.Fields)
		})
	}

	rr := s.do(http.MethodGet, "/items", "")
	assert.JSONEq(t, `[]`, rr.Body.String(), "rejected input must not be stored")
}

func TestQuantityUpperBound(t *testing.T) {
	s := newTestServer(t)

	for _, q := range []string{"4294967297", "3000000000", "2147483648"} {
		t.Run("create "+q, func(t *testing.T) {
			rr := s.do(http.MethodPost, "/item", `{"name":"x","item":"x","price":1,"quantity":`+q+`}`)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), `"quantity"`)
		})
	}

	created := s.create(`{"name":"x","item":"x","price":1,"quantity":2147483647,"category":"bulk"}`)
	assert.Equal(t, 2147483647, created.Quantity)
	got := decode[itemJSON](t, s.do(http.MethodGet, itemPath(created.ID), ""))
	assert.Equal(t, created, got)

	rr := s.do(http.MethodPatch, itemPath(created.ID), `{"quantity":4294967297}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	rr = s.do(http.MethodPut, itemPath(created.ID), `{"name":"x","item":"x","price":1,"quantity":4294967297}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	assert.JSONEq(t, `{"labels":["bulk"],"values":[2147483647]}`, s.do(http.MethodGet, "/chart-data", "").Body.String())
}

func TestCreate_TrailingContent(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/item", `{"name":"a","item":"x","price":1,"quantity":1} junk`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rr.Body.String())

	assert.JSONEq(t, `[]`, s.do(http.MethodGet, "/items", "").Body.String())
}

func TestCreate_MalformedJSON(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/item", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rr.Body.String())
}

func TestListOrder(t *testing.T) {
	s := newTestServer(t)

	a := s.create(`{"name":"a","item":"x","price":1,"quantity":1}`)
	b := s.create(`{"name":"b","item":"x","price":1,"quantity":1}`)

	rr := s.do(http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rr.Code)
	items := decode[[]itemJSON](t, rr)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, b.ID, items[1].ID)
}

func TestPut(t *testing.T) {
	s := newTestServer(t)
	created := s.create(milk)

	replacement := `{"name":"Bakery","item":"Bread","price":3,"quantity":2}`
	rr := s.do(http.MethodPut, itemPath(created.ID), replacement)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[itemJSON](t, rr)

	assert.Equal(t, itemJSON{
		ID: created.ID, Name: "Bakery", Description: "", Item: "Bread",
		Price: 3, Quantity: 2, Category: "uncategorized", DateAdded: "2024-03-01",
	}, updated)

	again := s.do(http.MethodPut, itemPath(created.ID), replacement)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, updated, decode[itemJSON](t, again), "PUT is idempotent")

	rr = s.do(http.MethodPut, "/item/99999", replacement)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, rr.Body.String())

	rr = s.do(http.MethodPut, itemPath(created.ID), `{"name":"Bakery"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPatch(t *testing.T) {
	s := newTestServer(t)
	created := s.create(milk)
	path := itemPath(created.ID)

	t.Run("quantity zero sets zero", func(t *testing.T) {
		rr := s.do(http.MethodPatch, path, `{"quantity":0}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		got := decode[itemJSON](t, rr)
		assert.Equal(t, 0, got.Quantity)
		assert.Equal(t, created.Price, got.Price)
		assert.Equal(t, created.Name, got.Name)
	})

	t.Run("price zero sets zero", func(t *testing.T) {
		rr := s.do(http.MethodPatch, path, `{"price":0}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0.0, decode[itemJSON](t, rr).Price)
	})

	t.Run("null clears description", func(t *testing.T) {
		rr := s.do(http.MethodPatch, path, `{"description":null}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "", decode[itemJSON](t, rr).Description)
	})

	t.Run("null name rejected", func(t *testing.T) {
		rr := s.do(http.MethodPatch, path, `{"name":null}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name"`)
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		before := decode[itemJSON](t, s.do(http.MethodGet, path, ""))
		rr := s.do(http.MethodPatch, path, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, before, decode[itemJSON](t, rr))
	})

	t.Run("idempotent", func(t *testing.T) {
		body := `{"name":"Renamed","category":"dairy"}`
		first := s.do(http.MethodPatch, path, body)
		second := s.do(http.MethodPatch, path, body)
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, decode[itemJSON](t, first), decode[itemJSON](t, second))
	})

	t.Run("invalid value", func(t *testing.T) {
		rr := s.do(http.MethodPatch, path, `{"quantity":-3}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"quantity"`)
	})

	t.Run("wrong type", func(t *testing.T) {
		rr := s.do(http.MethodPatch, path, `{"price":"free"}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing item", func(t *testing.T) {
		rr := s.do(http.MethodPatch, "/item/99999", `{"quantity":1}`)
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Item not found"}`, rr.Body.String())
	})
}

func TestDelete(t *testing.T) {
	s := newTestServer(t)
	created := s.create(milk)

	rr := s.do(http.MethodDelete, itemPath(created.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode[itemJSON](t, rr))

	rr = s.do(http.MethodGet, itemPath(created.ID), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, rr.Body.String())

	rr = s.do(http.MethodDelete, itemPath(created.ID), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestChartData(t *testing.T) {
	s := newTestServer(t)
	s.create(`{"name":"a","item":"x","price":10,"quantity":2,"category":"food"}`)
	s.create(`{"name":"b","item":"y","price":5,"quantity":1,"category":"food"}`)
	s.create(`{"name":"c","item":"z","price":3,"quantity":4,"category":"misc"}`)

	rr := s.do(http.MethodGet, "/chart-data", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"labels":["food","misc"],"values":[25,12]}`, rr.Body.String())
}

func TestItemIDRouting(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/item/abc", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, "/item/99999999999999999999999", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, rr.Body.String())
}

func TestAuthGuard(t *testing.T) {
	tokens := auth.NewTokens([]byte("route-test-secret-route-test-sec"), "")
	store := auth.NewSessionStore(nil, []byte("test-auth-key-must-be-32-bytes!!"), []byte("test-enc-key-must-be-32-bytes!!!"), false)

	a := &app.Application{
		Db:     database.NewTestDB(t, itemmigrations.SQLite()),
		Logger: logger.Discard(),
		Auth:   auth.RequireAuth(store, tokens, logger.Discard()),
	}
	r := chi.NewRouter()
	api.ItemRoutes(r, a)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusOK, rr.Code, "welcome route stays public")

	raw, err := tokens.Issue("alice", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/items", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
