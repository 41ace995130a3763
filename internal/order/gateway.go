package order

import (
	"context"
	"fmt"

	"github.com/noah-isme/backend-lingua/internal/draft"
	"github.com/noah-isme/backend-lingua/internal/school"
)

// Gateway is the pass-through to the upstream order resource. It adds no
// semantics of its own; validation and pricing happen before a payload gets
// here.
type Gateway struct {
	client *school.Client
}

// NewGateway constructs a Gateway.
func NewGateway(client *school.Client) *Gateway {
	return &Gateway{client: client}
}

// List fetches all orders.
func (g *Gateway) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := g.client.Get(ctx, "/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get fetches a single order.
func (g *Gateway) Get(ctx context.Context, id int64) (Order, error) {
	var ord Order
	if err := g.client.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &ord); err != nil {
		return Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return ord, nil
}

// Create places a new order.
func (g *Gateway) Create(ctx context.Context, payload draft.Payload) (Order, error) {
	var ord Order
	if err := g.client.Post(ctx, "/orders", payload, &ord); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return ord, nil
}

// Update replaces the mutable fields of an order.
func (g *Gateway) Update(ctx context.Context, id int64, payload updatePayload) (Order, error) {
	var ord Order
	if err := g.client.Put(ctx, fmt.Sprintf("/orders/%d", id), payload, &ord); err != nil {
		return Order{}, fmt.Errorf("update order %d: %w", id, err)
	}
	return ord, nil
}

// Delete removes an order.
func (g *Gateway) Delete(ctx context.Context, id int64) error {
	if err := g.client.Delete(ctx, fmt.Sprintf("/orders/%d", id), nil); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return nil
}
