package domain

import (
	"github.com/shopspring/decimal"
)

// Cart is the ordered list of lines held on this device. Insertion order is display order.
type Cart struct {
	Lines []CartLine
}

// CartLine is one product's entry in the cart.
// JSON names match the layout the storefront has always persisted locally.
type CartLine struct {
	ProductID  int64           `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	UnitPrice  decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stock"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func NewCartLine(p Product, quantity int) CartLine {
	return CartLine{
		ProductID:  p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		UnitPrice:  p.FinalPrice,
		ImageURL:   p.Image,
		Quantity:   quantity,
		StockLimit: p.Stock,
	}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is the sum of unit price times quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount sums quantities, not lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c Cart) Line(productID int64) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}
