package admin

import (
	"context"
	"net/url"

	"storefront/internal/api"
	"storefront/internal/logger"
	"storefront/internal/product"
	"storefront/internal/session"

	"go.uber.org/zap"
)

// ProductInput is the admin-side product payload for create and update.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// DashboardStats mirrors the admin dashboard summary.
type DashboardStats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	Revenue       float64 `json:"revenue"`
}

// Gateway is the product-management console's server side. Authorization is
// enforced by the server; the client only routes the calls.
type Gateway interface {
	CreateProduct(ctx context.Context, input ProductInput) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, stock int) (*product.Product, error)
	Users(ctx context.Context) ([]session.User, error)
	UpdateUserRole(ctx context.Context, userID, role string) (*session.User, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type gateway struct {
	client *api.Client
}

func NewGateway(client *api.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) CreateProduct(ctx context.Context, input ProductInput) (*product.Product, error) {
	var p product.Product
	if err := g.client.Post(ctx, "/products", input, &p); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("product created", zap.String("product_id", p.ID))
	return &p, nil
}

func (g *gateway) UpdateProduct(ctx context.Context, id string, input ProductInput) (*product.Product, error) {
	var p product.Product
	if err := g.client.Put(ctx, "/products/"+url.PathEscape(id), input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *gateway) DeleteProduct(ctx context.Context, id string) error {
	return g.client.Delete(ctx, "/products/"+url.PathEscape(id), nil)
}

func (g *gateway) UpdateStock(ctx context.Context, id string, stock int) (*product.Product, error) {
	body := map[string]int{"stock": stock}
	var p product.Product
	if err := g.client.Patch(ctx, "/products/"+url.PathEscape(id)+"/stock", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *gateway) Users(ctx context.Context) ([]session.User, error) {
	var users []session.User
	if err := g.client.Get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (g *gateway) UpdateUserRole(ctx context.Context, userID, role string) (*session.User, error) {
	body := map[string]string{"role": role}
	var u session.User
	if err := g.client.Put(ctx, "/admin/users/"+url.PathEscape(userID)+"/role", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (g *gateway) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := g.client.Get(ctx, "/admin/dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
