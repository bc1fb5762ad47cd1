package criteria

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainCriteria "pos/src/shared/domain/criteria"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownColumn      = errors.New("unknown column")
	ErrInvalidFilterValue = errors.New("invalid filter value")
)

// ColumnType define cómo se convierte el valor (texto de query params) de un filtro
type ColumnType int

const (
	TextColumn ColumnType = iota
	IntColumn
	BoolColumn
	DecimalColumn
	TimeColumn
)

// Columns columnas consultables de una tabla con su tipo
type Columns map[string]ColumnType

// SQLQuery consulta con placeholders de PostgreSQL y sus argumentos
type SQLQuery struct {
	SQL  string
	Args []interface{}
}

// SQLCriteriaConverter arma SELECT y COUNT a partir de un Criteria.
// Solo acepta columnas declaradas y convierte cada valor al tipo de su columna.
type SQLCriteriaConverter struct {
	columns Columns
}

func NewSQLCriteriaConverter(columns Columns) *SQLCriteriaConverter {
	return &SQLCriteriaConverter{columns: columns}
}

// Select agrega WHERE, ORDER BY y LIMIT/OFFSET a la consulta base
func (s *SQLCriteriaConverter) Select(base string, c domainCriteria.Criteria) (SQLQuery, error) {
	query, err := s.Count(base, c)
	if err != nil {
		return SQLQuery{}, err
	}

	if !c.Order.IsEmpty() {
		if _, ok := s.columns[c.Order.Field]; !ok {
			return SQLQuery{}, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Order.Field)
		}
		direction := domainCriteria.DESC
		if c.Order.OrderType == domainCriteria.ASC {
			direction = domainCriteria.ASC
		}
		query.SQL += fmt.Sprintf(" ORDER BY %s %s", c.Order.Field, direction)
	}

	if c.Limit != nil {
		offset := 0
		if c.Offset != nil {
			offset = *c.Offset
		}
		query.SQL += fmt.Sprintf(" LIMIT %d OFFSET %d", *c.Limit, offset)
	}
	return query, nil
}

// Count agrega solo el WHERE; sirve para el total de una página
func (s *SQLCriteriaConverter) Count(base string, c domainCriteria.Criteria) (SQLQuery, error) {
	query := SQLQuery{SQL: strings.TrimSpace(base)}
	if c.Filters.IsEmpty() {
		return query, nil
	}

	conditions := make([]string, 0, len(c.Filters.Items))
	for _, filter := range c.Filters.Items {
		condition, arg, hasArg, err := s.condition(filter, len(query.Args)+1)
		if err != nil {
			return SQLQuery{}, err
		}
		conditions = append(conditions, condition)
		if hasArg {
			query.Args = append(query.Args, arg)
		}
	}

	query.SQL += " WHERE " + strings.Join(conditions, " AND ")
	return query, nil
}

func (s *SQLCriteriaConverter) condition(filter domainCriteria.Filter, position int) (string, interface{}, bool, error) {
	kind, ok := s.columns[filter.Field]
	if !ok {
		return "", nil, false, fmt.Errorf("%w: %s", ErrUnknownColumn, filter.Field)
	}
	placeholder := "$" + strconv.Itoa(position)

	switch filter.Operator {
	case domainCriteria.OpIsNull, domainCriteria.OpIsNotNull:
		return fmt.Sprintf("%s %s", filter.Field, filter.Operator), nil, false, nil
	case domainCriteria.OpLike:
		text, isText := filter.Value.(string)
		if kind != TextColumn || !isText {
			return "", nil, false, fmt.Errorf("%w: LIKE needs a text value on %s", ErrInvalidFilterValue, filter.Field)
		}
		if !strings.Contains(text, "%") {
			text = "%" + text + "%"
		}
		return fmt.Sprintf("%s LIKE %s", filter.Field, placeholder), text, true, nil
	case domainCriteria.OpEqual, domainCriteria.OpNotEqual, domainCriteria.OpGreaterThan,
		domainCriteria.OpGreaterThanOrEqual, domainCriteria.OpLessThan, domainCriteria.OpLessThanOrEqual:
	default:
		return "", nil, false, fmt.Errorf("%w: operator %q on %s", ErrInvalidFilterValue, filter.Operator, filter.Field)
	}

	arg, err := coerce(kind, filter.Value)
	if err != nil {
		return "", nil, false, fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, filter.Field, err)
	}
	return fmt.Sprintf("%s %s %s", filter.Field, filter.Operator, placeholder), arg, true, nil
}

// coerce convierte el texto de un query param al tipo de la columna
func coerce(kind ColumnType, value interface{}) (interface{}, error) {
	raw, isText := value.(string)
	if !isText {
		return value, nil
	}
	raw = strings.TrimSpace(raw)

	switch kind {
	case IntColumn:
		return strconv.Atoi(raw)
	case BoolColumn:
		return strconv.ParseBool(raw)
	case DecimalColumn:
		return decimal.NewFromString(raw)
	case TimeColumn:
		if day, err := time.Parse(time.DateOnly, raw); err == nil {
			return day, nil
		}
		return time.Parse(time.RFC3339, raw)
	}
	return raw, nil
}
