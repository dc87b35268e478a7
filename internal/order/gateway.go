package order

import (
	"context"
	"net/url"

	"storefront/internal/api"
	"storefront/internal/logger"

	"go.uber.org/zap"
)

// Gateway places and reads orders. Checkout stops at order creation: there is
// no payment flow.
type Gateway interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
}

type gateway struct {
	client *api.Client
}

func NewGateway(client *api.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if input.ShippingAddress == "" {
		return nil, ErrMissingAddress
	}

	var o Order
	if err := g.client.Post(ctx, "/orders", input, &o); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("lines", len(input.Items)),
	)
	return &o, nil
}

func (g *gateway) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := g.client.Get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *gateway) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	if err := g.client.Get(ctx, "/orders/"+url.PathEscape(id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}
