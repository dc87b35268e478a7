package session

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

func TestGateway_LoginAndMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /auth/login":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok-1","user":{"_id":"u1","email":"ana@shop.test","name":"Ana","role":"admin"}}`))
		case "GET /auth/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"_id":"u1","email":"ana@shop.test","name":"Ana","role":"admin"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := &staticTokens{}
	gw := NewGateway(api.NewClient(srv.URL, time.Second, tokens))

	res, err := gw.Login(context.Background(), "ana@shop.test", "secret")
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.True(t, res.User.IsAdmin())

	tokens.token = res.Token
	user, err := gw.Me(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "ana@shop.test", user.Email)

	_, err = gw.Login(context.Background(), "ana@shop.test", "wrong")
	assert.True(t, api.IsUnauthenticated(err))
}

func TestGateway_ProfileEndpoints(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/auth/profile":
			_, _ = w.Write([]byte(`{"_id":"u1","email":"new@shop.test","name":"New Name","role":"user"}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	gw := NewGateway(api.NewClient(srv.URL, time.Second, &staticTokens{token: "tok"}))
	ctx := context.Background()

	user, err := gw.UpdateProfile(ctx, "New Name", "new@shop.test")
	assert.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)

	assert.NoError(t, gw.ChangePassword(ctx, "old", "new"))
	assert.NoError(t, gw.DeleteAccount(ctx))

	assert.Equal(t, []string{
		"PUT /auth/profile",
		"PUT /auth/password",
		"DELETE /auth/account",
	}, paths)
}
