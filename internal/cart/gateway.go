package cart

import (
	"context"
	"net/url"

	"storefront/internal/api"
)

// Gateway is the server-facing side of the cart. Mutations report only the
// server's verdict; all local state lives in the Store.
type Gateway interface {
	Fetch(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
}

type gateway struct {
	client *api.Client
}

func NewGateway(client *api.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) Fetch(ctx context.Context) ([]Item, error) {
	var res struct {
		Items []Item `json:"items"`
	}
	if err := g.client.Get(ctx, "/cart", &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (g *gateway) Add(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{
		"productId": productID,
		"quantity":  quantity,
	}
	return g.client.Post(ctx, "/cart", body, nil)
}

func (g *gateway) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return g.client.Put(ctx, "/cart/"+url.PathEscape(productID), body, nil)
}

func (g *gateway) Remove(ctx context.Context, productID string) error {
	return g.client.Delete(ctx, "/cart/"+url.PathEscape(productID), nil)
}

func (g *gateway) Clear(ctx context.Context) error {
	return g.client.Delete(ctx, "/cart", nil)
}
