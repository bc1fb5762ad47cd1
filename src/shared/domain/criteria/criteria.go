package criteria

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Operator operador de comparación de un filtro
type Operator string

const (
	OpEqual              Operator = "="
	OpNotEqual           Operator = "!="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpLike               Operator = "LIKE"
	OpIsNull             Operator = "IS NULL"
	OpIsNotNull          Operator = "IS NOT NULL"
)

// OrderType dirección del ordenamiento
type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Filter condición sobre un campo
type Filter struct {
	Field    string
	Operator Operator
	Value    interface{}
}

func NewFilter(field string, operator Operator, value interface{}) Filter {
	return Filter{Field: field, Operator: operator, Value: value}
}

// Filters conjunto de filtros combinados con AND
type Filters struct {
	Items []Filter
}

func NewFilters(items ...Filter) Filters {
	return Filters{Items: items}
}

func (f *Filters) Add(filter Filter) {
	f.Items = append(f.Items, filter)
}

func (f Filters) IsEmpty() bool {
	return len(f.Items) == 0
}

// Order ordenamiento por un campo
type Order struct {
	Field     string
	OrderType OrderType
}

func NewOrder(field string, orderType OrderType) Order {
	return Order{Field: field, OrderType: orderType}
}

func (o Order) IsEmpty() bool {
	return o.Field == ""
}

// Criteria filtros + orden + paginación
type Criteria struct {
	Filters Filters
	Order   Order
	Limit   *int
	Offset  *int
}

func NewCriteria(filters Filters, order Order, limit, offset *int) Criteria {
	return Criteria{Filters: filters, Order: order, Limit: limit, Offset: offset}
}

// CriteriaBuilder construye un Criteria paso a paso
type CriteriaBuilder struct {
	filters Filters
	order   Order
	limit   int
	offset  int
}

func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{limit: DefaultLimit}
}

// FromURLValues interpreta query params:
//
//	limit, offset, order_by, order (asc|desc)
//	<campo>_from → >=, <campo>_to → <, <campo> → =
func (b *CriteriaBuilder) FromURLValues(values url.Values) *CriteriaBuilder {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values.Get(key)
		if value == "" {
			continue
		}

		switch {
		case key == "limit":
			if n, err := strconv.Atoi(value); err == nil {
				b.WithLimit(n)
			}
		case key == "offset":
			if n, err := strconv.Atoi(value); err == nil {
				b.WithOffset(n)
			}
		case key == "order_by":
			b.order.Field = value
			if b.order.OrderType == "" {
				b.order.OrderType = DESC
			}
		case key == "order":
			if strings.EqualFold(value, "asc") {
				b.order.OrderType = ASC
			} else {
				b.order.OrderType = DESC
			}
		case strings.HasSuffix(key, "_from"):
			b.Where(strings.TrimSuffix(key, "_from"), OpGreaterThanOrEqual, value)
		case strings.HasSuffix(key, "_to"):
			b.Where(strings.TrimSuffix(key, "_to"), OpLessThan, value)
		default:
			b.Where(key, OpEqual, value)
		}
	}
	return b
}

func (b *CriteriaBuilder) Where(field string, operator Operator, value interface{}) *CriteriaBuilder {
	b.filters.Add(NewFilter(field, operator, value))
	return b
}

func (b *CriteriaBuilder) OrderBy(field string, orderType OrderType) *CriteriaBuilder {
	b.order = NewOrder(field, orderType)
	return b
}

// WithLimit acota el límite a [1, MaxLimit]
func (b *CriteriaBuilder) WithLimit(limit int) *CriteriaBuilder {
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	b.limit = limit
	return b
}

func (b *CriteriaBuilder) WithOffset(offset int) *CriteriaBuilder {
	if offset < 0 {
		offset = 0
	}
	b.offset = offset
	return b
}

func (b *CriteriaBuilder) Build() Criteria {
	limit, offset := b.limit, b.offset
	return NewCriteria(b.filters, b.order, &limit, &offset)
}
