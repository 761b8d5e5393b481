package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Category      int64               `json:"category"`
	CategoryName  string              `json:"category_name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	FinalPrice    decimal.Decimal     `json:"final_price"`
	Image         string              `json:"image"`
	Stock         int                 `json:"stock"`
	Available     bool                `json:"available"`
	Featured      bool                `json:"featured"`
	Rating        decimal.Decimal     `json:"rating"`
	IsOnSale      bool                `json:"is_on_sale"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (p Product) InStock() bool {
	return p.Available && p.Stock > 0
}

// ProductQuery holds the optional filters of the product listing.
type ProductQuery struct {
	Page     int
	Category string
	Search   string
	Ordering string
}

// Page is a listing that may or may not have been paginated by the backend.
// For plain lists Count equals len(Results) and Next/Previous are empty.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

func (p Page[T]) HasNext() bool {
	return p.Next != ""
}
