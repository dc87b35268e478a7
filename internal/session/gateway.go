package session

import (
	"context"

	"storefront/internal/api"
)

// AuthResult is the server's answer to login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Gateway is the server-facing side of authentication.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Me(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, name, email string) (*User, error)
	ChangePassword(ctx context.Context, current, next string) error
	DeleteAccount(ctx context.Context) error
}

type gateway struct {
	client *api.Client
}

func NewGateway(client *api.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res AuthResult
	if err := g.client.Post(ctx, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *gateway) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var res AuthResult
	if err := g.client.Post(ctx, "/auth/register", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *gateway) Me(ctx context.Context) (*User, error) {
	var u User
	if err := g.client.Get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *gateway) UpdateProfile(ctx context.Context, name, email string) (*User, error) {
	body := map[string]string{"name": name, "email": email}
	var u User
	if err := g.client.Put(ctx, "/auth/profile", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *gateway) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return g.client.Put(ctx, "/auth/password", body, nil)
}

func (g *gateway) DeleteAccount(ctx context.Context) error {
	return g.client.Delete(ctx, "/auth/account", nil)
}
