package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"

	"github.com/shopspring/decimal"
)

const resourceProducts = "products"

// ProductResponse producto devuelto por la búsqueda
type ProductResponse struct {
	ID         flexibleID      `json:"id" validate:"required"`
	Code       string          `json:"code"`
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	CategoryID flexibleID      `json:"category_id"`
	Stock      int             `json:"stock"`
}

// CatalogClient recurso /api/v1/products
type CatalogClient struct {
	*BackendClient
}

func NewCatalogClient(base *BackendClient) *CatalogClient {
	return &CatalogClient{BackendClient: base}
}

// SearchProducts búsqueda por nombre o código
func (c *CatalogClient) SearchProducts(ctx context.Context, sess *session.Session, query string, pageSize int) ([]entity.Product, error) {
	params := url.Values{}
	params.Set("q", query)
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}

	var resp dataEnvelope[ProductResponse]
	if err := c.do(ctx, sess, resourceProducts, http.MethodGet, "/api/v1/products/search", params, nil, &resp); err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(resp.Data))
	for _, p := range resp.Data {
		products = append(products, entity.Product{
			ID:         string(p.ID),
			Code:       p.Code,
			Name:       p.Name,
			Price:      p.Price,
			CategoryID: string(p.CategoryID),
			Stock:      p.Stock,
		})
	}
	return products, nil
}
