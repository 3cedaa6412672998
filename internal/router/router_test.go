package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"catalog/app/auth"
	"catalog/app/category"
	"catalog/app/product"
	"catalog/infra/postgres"
	"catalog/internal/testdb"
	"catalog/pkg/events"
	"catalog/pkg/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []notification.LowStockMessage
}

func (s *recordingSender) SendLowStock(_ context.Context, msg notification.LowStockMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type eventLog struct {
	mu    sync.Mutex
	names []string
}

func (l *eventLog) record(_ context.Context, event *events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, event.Event)
	return nil
}

type testEnv struct {
	app    *fiber.App
	sender *recordingSender
	events *eventLog
}

type response struct {
	status int
	body   map[string]any
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testdb.New(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	pg := postgres.NewPgRepositoryFromDB(sqlDB, testdb.DriverName)

	authService := auth.NewService(postgres.NewAuthRepository(pg, time.Second))
	_, err = authService.CreateUser(context.Background(), auth.CreateUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	sender := &recordingSender{}
	log := &eventLog{}
	dispatcher := events.NewDispatcher()
	dispatcher.Listen(events.Wildcard, log.record)

	app := New(Deps{
		Auth:       authService,
		Categories: category.NewService(postgres.NewCategoryStore(gdb, time.Second)),
		Products:   product.NewService(postgres.NewProductStore(gdb, time.Second), notification.NewDispatcher(sender, 10), 10, "catalog"),
		Events:     dispatcher,
		Database:   pg,
	})

	return &testEnv{app: app, sender: sender, events: log}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	res := response{status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &res.body), string(raw))
	}
	return res
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/login", map[string]any{"email": "test@example.com", "password": "password"}, "")
	require.Equal(t, http.StatusOK, res.status, res.body)
	token, ok := res.body["token"].(string)
	require.True(t, ok)
	return token
}

func (e *testEnv) createCategory(t *testing.T, token, name string) uint {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": name}, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	return uint(data(t, res)["id"].(float64))
}

func (e *testEnv) createProduct(t *testing.T, token string, payload map[string]any) uint {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/products", payload, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	return uint(data(t, res)["id"].(float64))
}

func data(t *testing.T, res response) map[string]any {
	t.Helper()
	d, ok := res.body["data"].(map[string]any)
	require.True(t, ok, res.body)
	return d
}

func list(t *testing.T, res response) []any {
	t.Helper()
	d, ok := res.body["data"].([]any)
	require.True(t, ok, res.body)
	return d
}

func fieldErrors(t *testing.T, res response) map[string]any {
	t.Helper()
	assert.Equal(t, true, res.body["error"])
	assert.Equal(t, "Validation failed.", res.body["message"])
	errs, ok := res.body["errors"].(map[string]any)
	require.True(t, ok, res.body)
	return errs
}

func categoryIDs(t *testing.T, product map[string]any) []uint {
	t.Helper()
	categories, ok := product["categories"].([]any)
	require.True(t, ok, product)
	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = uint(c.(map[string]any)["id"].(float64))
	}
	return ids
}

func TestLowStockScenario(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	res := env.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Electronics"}, token)
	require.Equal(t, http.StatusCreated, res.status)
	created := data(t, res)
	assert.Equal(t, "Electronics", created["name"])
	assert.NotContains(t, created, "description")
	categoryID := created["id"]

	res = env.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name":       "Phone",
		"price":      199.99,
		"stock":      3,
		"categories": []any{categoryID},
	}, token)
	require.Equal(t, http.StatusCreated, res.status, res.body)
	phone := data(t, res)
	assert.Equal(t, "Phone", phone["name"])
	assert.Equal(t, 199.99, phone["price"])
	assert.Equal(t, float64(3), phone["stock"])
	assert.Equal(t, []uint{uint(categoryID.(float64))}, categoryIDs(t, phone))

	require.Equal(t, 1, env.sender.count())
	assert.Equal(t, "test@example.com", env.sender.messages[0].Recipient.Email)
	assert.Equal(t, "Phone", env.sender.messages[0].ProductName)
	assert.Equal(t, []string{events.ProductCreatedEvent}, env.events.names)

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%v", phone["id"]), map[string]any{
		"name":       "Phone",
		"price":      199.99,
		"categories": []any{},
	}, token)
	require.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, map[string]any{"categories": []any{"At least one category is required."}}, fieldErrors(t, res))
	assert.Equal(t, 1, env.sender.count())
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	assert.NotEmpty(t, env.login(t))

	res := env.do(t, http.MethodPost, "/api/v1/login", map[string]any{"email": "test@example.com", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, map[string]any{"email": []any{"The provided credentials are incorrect."}}, fieldErrors(t, res))

	res = env.do(t, http.MethodPost, "/api/v1/login", map[string]any{"email": "test@example.com"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Contains(t, fieldErrors(t, res), "password")
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	res := env.do(t, http.MethodPost, "/api/v1/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, res.status)
	assert.Nil(t, res.body)

	res = env.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Electronics"}, token)
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = env.do(t, http.MethodPost, "/api/v1/logout", nil, token)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestMutationsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/categories"},
		{http.MethodPut, "/api/v1/categories/1"},
		{http.MethodDelete, "/api/v1/categories/1"},
		{http.MethodPost, "/api/v1/products"},
		{http.MethodPut, "/api/v1/products/1"},
		{http.MethodDelete, "/api/v1/products/1"},
		{http.MethodPost, "/api/v1/logout"},
	}

	for _, tc := range testCases {
		res := env.do(t, tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, res.status, tc.path)
		assert.Equal(t, true, res.body["error"])
		assert.Equal(t, "Unauthenticated.", res.body["message"])
	}

	res := env.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Electronics"}, "1|not-a-token")
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	id := env.createCategory(t, token, "Electronics")

	res := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", id), nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Electronics", data(t, res)["name"])

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", id), map[string]any{"name": ""}, token)
	require.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, map[string]any{"name": []any{"The name field is required."}}, fieldErrors(t, res))

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", id), map[string]any{"name": "Gadgets"}, token)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Gadgets", data(t, res)["name"])

	res = env.do(t, http.MethodPut, "/api/v1/categories/999", map[string]any{"name": ""}, token)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", id), nil, token)
	assert.Equal(t, http.StatusNoContent, res.status)

	res = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Resource not found.", res.body["message"])

	res = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", id), nil, token)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestCategoryPagination(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	for i := range 12 {
		env.createCategory(t, token, fmt.Sprintf("Category %d", i+1))
	}

	res := env.do(t, http.MethodGet, "/api/v1/categories?page=2", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, list(t, res), 2)
	assert.Equal(t, map[string]any{
		"current_page": float64(2),
		"per_page":     float64(10),
		"total":        float64(12),
		"last_page":    float64(2),
	}, res.body["meta"])

	res = env.do(t, http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	first := list(t, res)
	assert.Len(t, first, 10)
	assert.Equal(t, "Category 1", first[0].(map[string]any)["name"])
}

func TestProductValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	categoryID := env.createCategory(t, token, "Electronics")

	testCases := []struct {
		name    string
		payload map[string]any
		want    map[string]any
	}{
		{
			name:    "stops at first failure",
			payload: map[string]any{},
			want:    map[string]any{"name": []any{"The product name is required."}},
		},
		{
			name:    "price too low",
			payload: map[string]any{"name": "Phone", "price": 0, "categories": []any{categoryID}},
			want:    map[string]any{"price": []any{"The product price must be at least 0.01."}},
		},
		{
			name:    "stock below one",
			payload: map[string]any{"name": "Phone", "price": 1, "stock": 0, "categories": []any{categoryID}},
			want:    map[string]any{"stock": []any{"The stock must be at least 1."}},
		},
		{
			name:    "missing categories",
			payload: map[string]any{"name": "Phone", "price": 1},
			want:    map[string]any{"categories": []any{"At least one category is required."}},
		},
		{
			name:    "unknown category",
			payload: map[string]any{"name": "Phone", "price": 1, "categories": []any{categoryID, 999}},
			want:    map[string]any{"categories.1": []any{"One or more selected categories do not exist."}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := env.do(t, http.MethodPost, "/api/v1/products", tc.payload, token)
			require.Equal(t, http.StatusUnprocessableEntity, res.status)
			assert.Equal(t, tc.want, fieldErrors(t, res))
		})
	}

	res := env.do(t, http.MethodGet, "/api/v1/products", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Empty(t, list(t, res))
}

func TestProductMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	res := env.do(t, http.MethodPost, "/api/v1/products", `{"name": `, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "request.invalid_body", res.body["code"])
}

func TestProductSyncAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	a := env.createCategory(t, token, "A")
	b := env.createCategory(t, token, "B")
	c := env.createCategory(t, token, "C")

	id := env.createProduct(t, token, map[string]any{
		"name":        "Phone",
		"description": "Smartphone",
		"price":       10,
		"stock":       50,
		"categories":  []any{a, b},
	})
	assert.Zero(t, env.sender.count())

	update := map[string]any{"name": "Phone X", "price": 12.5, "categories": []any{b, c}}
	for range 2 {
		res := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), update, token)
		require.Equal(t, http.StatusOK, res.status, res.body)
		updated := data(t, res)
		assert.Equal(t, "Phone X", updated["name"])
		assert.Equal(t, 12.5, updated["price"])
		assert.Equal(t, float64(50), updated["stock"])
		assert.Equal(t, "Smartphone", updated["description"])
		assert.Equal(t, []uint{b, c}, categoryIDs(t, updated))
	}
	assert.Zero(t, env.sender.count())

	update["stock"] = 2
	res := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), update, token)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, 1, env.sender.count())

	assert.Equal(t, []string{
		events.ProductCreatedEvent,
		events.ProductUpdatedEvent,
		events.ProductUpdatedEvent,
		events.ProductUpdatedEvent,
	}, env.events.names)

	res = env.do(t, http.MethodPut, "/api/v1/products/999", map[string]any{}, token)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestProductSoftDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	categoryID := env.createCategory(t, token, "Electronics")
	id := env.createProduct(t, token, map[string]any{"name": "Phone", "price": 1, "stock": 20, "categories": []any{categoryID}})

	res := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", id), nil, token)
	assert.Equal(t, http.StatusNoContent, res.status)

	res = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Resource not found.", res.body["message"])

	res = env.do(t, http.MethodGet, "/api/v1/products", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Empty(t, list(t, res))

	res = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", id), nil, token)
	assert.Equal(t, http.StatusNotFound, res.status)

	assert.Equal(t, []string{events.ProductCreatedEvent, events.ProductDeletedEvent}, env.events.names)
}

func TestProductListFilterAndSort(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	electronics := env.createCategory(t, token, "Electronics")
	books := env.createCategory(t, token, "Books")
	env.createProduct(t, token, map[string]any{"name": "Phone", "price": 10, "stock": 20, "categories": []any{electronics}})
	env.createProduct(t, token, map[string]any{"name": "Novel", "price": 5, "stock": 20, "categories": []any{books}})
	env.createProduct(t, token, map[string]any{"name": "Laptop", "price": 20, "stock": 20, "categories": []any{electronics}})

	res := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products?category_id=%d&sort_by=price&sort_order=desc", electronics), nil, "")
	require.Equal(t, http.StatusOK, res.status, res.body)
	items := list(t, res)
	require.Len(t, items, 2)
	assert.Equal(t, "Laptop", items[0].(map[string]any)["name"])
	assert.Equal(t, "Phone", items[1].(map[string]any)["name"])
	assert.Equal(t, float64(2), res.body["meta"].(map[string]any)["total"])
	assert.Contains(t, items[0].(map[string]any), "categories")

	res = env.do(t, http.MethodGet, "/api/v1/products?sort_by=color", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, map[string]any{"sort_by": []any{"The selected sort by is invalid."}}, fieldErrors(t, res))
}

func TestProductSearch(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	categoryID := env.createCategory(t, token, "Electronics")
	env.createProduct(t, token, map[string]any{"name": "Smart Phone", "price": 10, "stock": 20, "categories": []any{categoryID}})
	env.createProduct(t, token, map[string]any{"name": "Cable", "description": "Fits every phone", "price": 2, "stock": 20, "categories": []any{categoryID}})
	env.createProduct(t, token, map[string]any{"name": "Lamp", "price": 30, "stock": 20, "categories": []any{categoryID}})

	res := env.do(t, http.MethodGet, "/api/v1/products/search?query=PHONE", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	items := list(t, res)
	require.Len(t, items, 2)
	assert.NotContains(t, items[0].(map[string]any), "categories")

	res = env.do(t, http.MethodGet, "/api/v1/products/search?query=tablet", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "No products found matching your search criteria.", res.body["message"])

	res = env.do(t, http.MethodGet, "/api/v1/products/search", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, map[string]any{"query": []any{"The query field is required."}}, fieldErrors(t, res))
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(t, http.MethodGet, "/up", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "ok", res.body["status"])
	assert.Equal(t, "disabled", res.body["broker"])
	assert.Contains(t, res.body, "pool")

	res = env.do(t, http.MethodGet, "/api/v1/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, true, res.body["error"])

	res = env.do(t, http.MethodGet, "/api/v1/products/abc", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestProductUpdateExplicitNull(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	categoryID := env.createCategory(t, token, "Electronics")
	id := env.createProduct(t, token, map[string]any{
		"name":        "Phone",
		"description": "Smartphone",
		"price":       10,
		"stock":       50,
		"categories":  []any{categoryID},
	})

	res := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id),
		fmt.Sprintf(`{"name": "Phone", "price": 10, "stock": null, "categories": [%d]}`, categoryID), token)
	require.Equal(t, http.StatusOK, res.status, res.body)
	updated := data(t, res)
	assert.Nil(t, updated["stock"])
	assert.Equal(t, "Smartphone", updated["description"])
	assert.Equal(t, 1, env.sender.count())

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id),
		fmt.Sprintf(`{"name": "Phone", "price": 10, "description": null, "categories": [%d]}`, categoryID), token)
	require.Equal(t, http.StatusOK, res.status, res.body)
	assert.Nil(t, data(t, res)["description"])
}

func TestProductWrongTypedFieldsAreBadRequests(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	categoryID := env.createCategory(t, token, "Electronics")

	for _, body := range []string{
		fmt.Sprintf(`{"name": "Phone", "price": "cheap", "categories": [%d]}`, categoryID),
		`{"name": "Phone", "price": 1, "categories": [-1]}`,
		`{"name": "Phone", "price": 1, "categories": ["one"]}`,
	} {
		res := env.do(t, http.MethodPost, "/api/v1/products", body, token)
		assert.Equal(t, http.StatusBadRequest, res.status, body)
		assert.Equal(t, "request.invalid_body", res.body["code"], body)
	}

	res := env.do(t, http.MethodGet, "/api/v1/products", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Empty(t, list(t, res))
}
