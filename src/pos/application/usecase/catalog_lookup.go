package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
	"pos/src/shared/infrastructure/stream"
)

// DefaultSearchPageSize máximo de resultados por búsqueda
const DefaultSearchPageSize = 20

// CartReader lectura del carrito local
type CartReader interface {
	Current() entity.Cart
}

// CatalogResult resultado de una búsqueda de productos
type CatalogResult struct {
	Query    string           `json:"query"`
	Products []entity.Product `json:"products"`
	Notice   *entity.Notice   `json:"notice,omitempty"`
}

// CatalogLookup búsqueda de productos con debounce y stock disponible según el carrito
type CatalogLookup struct {
	gateway  port.CatalogGateway
	cart     CartReader
	sess     *session.Session
	pageSize int
	stream   *stream.Stream[CatalogResult]
}

func NewCatalogLookup(gateway port.CatalogGateway, cart CartReader, sess *session.Session, pageSize int, window time.Duration) *CatalogLookup {
	if pageSize <= 0 {
		pageSize = DefaultSearchPageSize
	}
	l := &CatalogLookup{gateway: gateway, cart: cart, sess: sess, pageSize: pageSize}
	l.stream = stream.New[CatalogResult](window, l.Search)
	return l
}

// Search consulta inmediata; nunca devuelve error, un fallo queda como aviso
func (l *CatalogLookup) Search(ctx context.Context, query string) CatalogResult {
	query = strings.TrimSpace(query)
	result := CatalogResult{Query: query, Products: []entity.Product{}}
	if query == "" {
		return result
	}

	products, err := l.gateway.SearchProducts(ctx, l.sess, query, l.pageSize)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("⚠️  Product search %q failed: %v", query, err)
		}
		result.Notice = entity.NewNotice(entity.NoticeWarning, "product search failed: "+entity.NoticeFromError(err).Message)
		return result
	}

	if len(products) > l.pageSize {
		products = products[:l.pageSize]
	}
	result.Products = entity.AnnotateAvailability(products, l.cart.Current())
	return result
}

// Submit alimenta el stream con lo que tipea el operador
func (l *CatalogLookup) Submit(query string) {
	l.stream.Submit(query)
}

// Latest último resultado vigente, con disponibilidad recalculada contra el carrito actual
func (l *CatalogLookup) Latest() (CatalogResult, bool) {
	latest, ok := l.stream.Latest()
	if !ok {
		return CatalogResult{Products: []entity.Product{}}, false
	}
	result := latest.Value
	result.Products = entity.AnnotateAvailability(result.Products, l.cart.Current())
	return result, true
}

func (l *CatalogLookup) Close() {
	l.stream.Close()
}
