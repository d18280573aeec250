package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/estore/internal/auth"
	"github.com/vladislavdragonenkov/estore/internal/domain"
	"github.com/vladislavdragonenkov/estore/internal/idgen"
	customersvc "github.com/vladislavdragonenkov/estore/internal/service/customer"
	ordersvc "github.com/vladislavdragonenkov/estore/internal/service/order"
	productsvc "github.com/vladislavdragonenkov/estore/internal/service/product"
	"github.com/vladislavdragonenkov/estore/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	ids := idgen.NewSequence(1)
	api := New(
		ordersvc.New(
			store,
			memory.NewOrderItemRepository(store),
			memory.NewCustomerRepository(store),
			memory.NewProductRepository(store),
			ids,
			nil,
		),
		customersvc.New(store, memory.NewCustomerRepository(store), ids),
		productsvc.New(store, memory.NewProductRepository(store), ids),
		auth.New(auth.NewMemoryTokenStore(), time.Hour),
	)

	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createCustomer(t *testing.T, server *httptest.Server, name, phone string) domain.Customer {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/customers", map[string]any{
		"name":  name,
		"phone": phone,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var customer domain.Customer
	require.NoError(t, json.Unmarshal(body, &customer))
	return customer
}

func createProduct(t *testing.T, server *httptest.Server, name, price string) domain.Product {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/products", map[string]any{
		"name":  name,
		"price": price,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var product domain.Product
	require.NoError(t, json.Unmarshal(body, &product))
	return product
}

func TestOrderEndpoints(t *testing.T) {
	server := newTestServer(t)
	ann := createCustomer(t, server, "Ann", "+7-900-000-00-01")
	pen := createProduct(t, server, "Pen", "1.50")

	// Создание с отсутствующим товаром — 400.
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/v1/orders", map[string]any{
		"customer_id": ann.ID,
		"product_id":  9999,
		"quantity":    1,
		"status":      2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/orders", map[string]any{
		"customer_id": ann.ID,
		"product_id":  pen.ID,
		"quantity":    3,
		"status":      2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created domain.OrderItem
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Ann", created.Customer.Name)
	assert.Equal(t, "Pen", created.Product.Name)

	// Частичное обновление количества.
	resp, body = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/v1/orders/%d", server.URL, created.ID), map[string]any{
		"quantity": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated domain.OrderItem
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, uint32(5), updated.Quantity)
	assert.Equal(t, domain.StatusOrdering, updated.Status)

	// Массовый перевод статуса.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/v1/orders/status", map[string]any{
		"ids":    []uint64{created.ID, 424242},
		"status": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/orders/%d", server.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.OrderItem
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, domain.StatusOutOfStock, got.Status)
}

func TestOrderErrorMapping(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{
			name:   "get missing order",
			method: http.MethodGet,
			path:   "/v1/orders/12345",
			want:   http.StatusNotFound,
		},
		{
			name:   "bad id in path",
			method: http.MethodGet,
			path:   "/v1/orders/abc",
			want:   http.StatusBadRequest,
		},
		{
			name:   "status out of range",
			method: http.MethodPost,
			path:   "/v1/orders",
			body:   map[string]any{"customer_id": 1, "product_id": 2, "quantity": 1, "status": 7},
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown body field",
			method: http.MethodPost,
			path:   "/v1/orders",
			body:   map[string]any{"customer": 1},
			want:   http.StatusBadRequest,
		},
		{
			name:   "bulk with bad status",
			method: http.MethodPost,
			path:   "/v1/orders/status",
			body:   map[string]any{"ids": []uint64{1}, "status": 100},
			want:   http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, tc.method, server.URL+tc.path, tc.body)
			assert.Equal(t, tc.want, resp.StatusCode, string(body))
			var errResp errorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestListOrdersFilterAndPaging(t *testing.T) {
	server := newTestServer(t)
	ann := createCustomer(t, server, "Ann", "+7-900-000-00-01")
	pen := createProduct(t, server, "Pen", "1.50")

	for i := 0; i < 3; i++ {
		resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/orders", map[string]any{
			"customer_id": ann.ID,
			"product_id":  pen.ID,
			"quantity":    i + 1,
			"status":      0,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/v1/orders/?query=pen&page=0&page_size=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page listOrdersResponse
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Len(t, page.Items, 2)

	resp, body = doJSON(t, http.MethodGet, server.URL+"/v1/orders/?query=nosuch", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Len(t, page.Items, 0)
}

func TestCustomerDuplicateContact(t *testing.T) {
	server := newTestServer(t)
	createCustomer(t, server, "Ann", "+7-900-000-00-01")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/customers", map[string]any{
		"name":  "Other Ann",
		"phone": "+7-900-000-00-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
}

func TestProductUpdateKeepsExactPrice(t *testing.T) {
	server := newTestServer(t)
	pen := createProduct(t, server, "Pen", "1.50")

	resp, body := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/v1/products/%d", server.URL, pen.ID), map[string]any{
		"price": "0.3",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated domain.Product
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "0.3", updated.Price.String())
}

func TestLoginAndLogout(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/login", map[string]any{
		"username": "ann",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var token auth.Token
	require.NoError(t, json.Unmarshal(body, &token))
	assert.NotEmpty(t, token.Token)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	logoutResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logoutResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, logoutResp.StatusCode)

	// Пустые учётные данные — 400.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/v1/login", map[string]any{
		"username": "",
		"password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestIDPropagated(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/v1/products/", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "test-trace-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "test-trace-1", resp.Header.Get("X-Request-Id"))

	// Без входящего заголовка идентификатор генерируется.
	resp2, err := http.Get(server.URL + "/v1/products/")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get("X-Request-Id"))
}
