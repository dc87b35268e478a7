package product

import (
	"context"
	"net/url"
	"strconv"

	"storefront/internal/api"
)

// Gateway is the server-facing side of the product catalog.
type Gateway interface {
	List(ctx context.Context, f Filter) (*ListResult, error)
	Get(ctx context.Context, id string) (*Product, error)
}

type gateway struct {
	client *api.Client
}

func NewGateway(client *api.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) List(ctx context.Context, f Filter) (*ListResult, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.PageSize))

	var res ListResult
	if err := g.client.Get(ctx, "/products?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *gateway) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := g.client.Get(ctx, "/products/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
