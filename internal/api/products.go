package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Ordering != "" {
		query.Set("ordering", q.Ordering)
	}

	var page pageOf[domain.Product]
	if err := c.getJSON(ctx, "/products/", query, &page); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return page.Page, nil
}

func (c *Client) GetProduct(ctx context.Context, slug string) (domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(slug)+"/", nil, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/products/featured/")
}

func (c *Client) LatestProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/products/latest/")
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var page pageOf[domain.Category]
	if err := c.getJSON(ctx, "/products/categories/", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetCategory(ctx context.Context, slug string) (domain.Category, error) {
	var category domain.Category
	if err := c.getJSON(ctx, "/products/categories/"+url.PathEscape(slug)+"/", nil, &category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (c *Client) productList(ctx context.Context, path string) ([]domain.Product, error) {
	var page pageOf[domain.Product]
	if err := c.getJSON(ctx, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}
