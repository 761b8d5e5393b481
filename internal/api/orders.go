package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/nikolayk812/storefront/internal/domain"
)

type createOrderResponse struct {
	Message string       `json:"message"`
	Order   domain.Order `json:"order"`
}

func (c *Client) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	var resp createOrderResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/orders/", in, &resp); err != nil {
		return domain.Order{}, err
	}
	return resp.Order, nil
}

func (c *Client) ListOrders(ctx context.Context) (domain.Page[domain.OrderSummary], error) {
	var page pageOf[domain.OrderSummary]
	if err := c.getJSON(ctx, "/orders/", nil, &page); err != nil {
		return domain.Page[domain.OrderSummary]{}, err
	}
	return page.Page, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	var order domain.Order
	if err := c.getJSON(ctx, "/orders/"+strconv.FormatInt(id, 10)+"/", nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
