package bus

import (
	"github.com/nikolayk812/storefront/internal/domain"
)

type CartChanged struct {
	ItemCount int
}

type LoggedOut struct{}

// AddToCart is raised by a product card; the mounted catalog performs the add.
type AddToCart struct {
	Product  domain.Product
	Quantity int
}

var (
	CartUpdated      = NewTopic[CartChanged]("cart-updated")
	UserLoggedIn     = NewTopic[domain.UserProfile]("user-logged-in")
	UserLoggedOut    = NewTopic[LoggedOut]("user-logged-out")
	AddToCartRequest = NewTopic[AddToCart]("add-to-cart-request")
)
