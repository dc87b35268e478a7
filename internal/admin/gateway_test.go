package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/api"

	"github.com/stretchr/testify/assert"
)

type staticTokens struct{ token string }

func (s *staticTokens) Token() string { return s.token }
func (s *staticTokens) Clear() error  { s.token = ""; return nil }

func TestGateway_ProductCRUD(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/products":
			var in ProductInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"_id": "p9", "name": in.Name, "price": in.Price, "stock": in.Stock,
			})
		case r.Method == http.MethodPut && r.URL.Path == "/products/p9":
			_, _ = w.Write([]byte(`{"_id":"p9","name":"Renamed","price":99}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/products/p9/stock":
			_, _ = w.Write([]byte(`{"_id":"p9","stock":42}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/products/p9":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	gw := NewGateway(api.NewClient(srv.URL, time.Second, &staticTokens{token: "admin-tok"}))
	ctx := context.Background()

	p, err := gw.CreateProduct(ctx, ProductInput{Name: "Webcam", Price: 45, Stock: 7})
	assert.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, "Webcam", p.Name)

	p, err = gw.UpdateProduct(ctx, "p9", ProductInput{Name: "Renamed", Price: 99})
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)

	p, err = gw.UpdateStock(ctx, "p9", 42)
	assert.NoError(t, err)
	assert.Equal(t, 42, p.Stock)

	assert.NoError(t, gw.DeleteProduct(ctx, "p9"))

	assert.Equal(t, []string{
		"POST /products",
		"PUT /products/p9",
		"PATCH /products/p9/stock",
		"DELETE /products/p9",
	}, calls)
}

func TestGateway_UsersAndStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /admin/users":
			_, _ = w.Write([]byte(`[
				{"_id":"u1","email":"ana@shop.test","role":"admin"},
				{"_id":"u2","email":"ben@shop.test","role":"user"}
			]`))
		case "PUT /admin/users/u2/role":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "admin", body["role"])
			_, _ = w.Write([]byte(`{"_id":"u2","email":"ben@shop.test","role":"admin"}`))
		case "GET /admin/dashboard":
			_, _ = w.Write([]byte(`{"totalUsers":2,"totalProducts":14,"totalOrders":5,"revenue":1203.50}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	gw := NewGateway(api.NewClient(srv.URL, time.Second, &staticTokens{token: "admin-tok"}))
	ctx := context.Background()

	users, err := gw.Users(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin())

	u, err := gw.UpdateUserRole(ctx, "u2", "admin")
	assert.NoError(t, err)
	assert.True(t, u.IsAdmin())

	stats, err := gw.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 14, stats.TotalProducts)
	assert.Equal(t, 1203.50, stats.Revenue)
}

func TestGateway_ForbiddenSurfaces401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"admin access required"}`))
	}))
	defer srv.Close()

	gw := NewGateway(api.NewClient(srv.URL, time.Second, &staticTokens{token: "user-tok"}))

	_, err := gw.Users(context.Background())
	assert.True(t, api.IsUnauthenticated(err))
}
