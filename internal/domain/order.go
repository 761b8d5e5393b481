package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ShippingInfo is what the customer types into the checkout form.
type ShippingInfo struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type OrderLine struct {
	Product  int64           `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// NewOrder is the create-order request body.
type NewOrder struct {
	ShippingInfo
	Items       []OrderLine `json:"items"`
	TotalAmount string      `json:"total_amount"`
}

func NewOrderFromCart(info ShippingInfo, cart Cart, total decimal.Decimal) NewOrder {
	items := make([]OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, OrderLine{
			Product:  l.ProductID,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
		})
	}

	return NewOrder{
		ShippingInfo: info,
		Items:        items,
		TotalAmount:  total.StringFixed(2),
	}
}

type OrderItem struct {
	ID           int64           `json:"id"`
	Product      int64           `json:"product"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type Order struct {
	ID              int64           `json:"id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	CustomerName    string          `json:"customer_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	PostalCode      string          `json:"postal_code"`
	Country         string          `json:"country"`
	ShippingAddress string          `json:"shipping_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderSummary is a row of the order history listing.
type OrderSummary struct {
	ID          int64           `json:"id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	ItemsCount  int             `json:"items_count"`
	CreatedAt   time.Time       `json:"created_at"`
}
