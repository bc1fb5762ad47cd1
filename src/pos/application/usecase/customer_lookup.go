package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
	"pos/src/shared/infrastructure/stream"
)

const (
	// MinCustomerQueryLength por debajo no se consulta al backend
	MinCustomerQueryLength = 2
	DefaultCustomerRole    = "customer"
)

// CustomerResult resultado de una búsqueda de clientes
type CustomerResult struct {
	Query     string            `json:"query"`
	Customers []entity.Customer `json:"customers"`
	Notice    *entity.Notice    `json:"notice,omitempty"`
}

// CustomerLookup búsqueda de clientes (usuarios con rol cliente) con debounce
type CustomerLookup struct {
	directory port.DirectoryGateway
	roles     port.RoleResolver
	sess      *session.Session
	roleName  string
	pageSize  int
	stream    *stream.Stream[CustomerResult]
}

func NewCustomerLookup(
	directory port.DirectoryGateway,
	roles port.RoleResolver,
	sess *session.Session,
	roleName string,
	pageSize int,
	window time.Duration,
) *CustomerLookup {
	if roleName == "" {
		roleName = DefaultCustomerRole
	}
	if pageSize <= 0 {
		pageSize = DefaultSearchPageSize
	}
	l := &CustomerLookup{directory: directory, roles: roles, sess: sess, roleName: roleName, pageSize: pageSize}
	l.stream = stream.New[CustomerResult](window, l.Search)
	return l
}

// Search consulta inmediata; nunca devuelve error
func (l *CustomerLookup) Search(ctx context.Context, query string) CustomerResult {
	query = strings.TrimSpace(query)
	result := CustomerResult{Query: query, Customers: []entity.Customer{}}
	if utf8.RuneCountInString(query) < MinCustomerQueryLength {
		return result
	}

	roleID, err := l.roles.ResolveRoleID(ctx, l.sess, l.roleName)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("⚠️  Could not resolve role %q, customer search suppressed: %v", l.roleName, err)
		}
		return result
	}

	customers, err := l.directory.FilterUsers(ctx, l.sess, query, roleID, l.pageSize)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("⚠️  Customer search %q failed: %v", query, err)
		}
		result.Notice = entity.NewNotice(entity.NoticeWarning, "customer search failed: "+entity.NoticeFromError(err).Message)
		return result
	}

	result.Customers = customers
	return result
}

func (l *CustomerLookup) Submit(query string) {
	l.stream.Submit(query)
}

func (l *CustomerLookup) Latest() (CustomerResult, bool) {
	latest, ok := l.stream.Latest()
	if !ok {
		return CustomerResult{Customers: []entity.Customer{}}, false
	}
	return latest.Value, true
}

func (l *CustomerLookup) Close() {
	l.stream.Close()
}
