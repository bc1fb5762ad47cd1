package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"
)

const (
	resourceUsers = "users"
	resourceRoles = "roles"
)

// UserResponse usuario del directorio
type UserResponse struct {
	ID        flexibleID `json:"id" validate:"required"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Document  string     `json:"document"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Phone     string     `json:"phone"`
}

// RoleResponse rol buscado por nombre
type RoleResponse struct {
	ID   flexibleID `json:"id" validate:"required"`
	Name string     `json:"name"`
}

// DirectoryClient recursos /api/v1/users y /api/v1/roles
type DirectoryClient struct {
	*BackendClient
}

func NewDirectoryClient(base *BackendClient) *DirectoryClient {
	return &DirectoryClient{BackendClient: base}
}

// FilterUsers filtra usuarios de un rol por nombre, documento o email
func (c *DirectoryClient) FilterUsers(ctx context.Context, sess *session.Session, query, roleID string, pageSize int) ([]entity.Customer, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("role_id", roleID)
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}

	var resp dataEnvelope[UserResponse]
	if err := c.do(ctx, sess, resourceUsers, http.MethodGet, "/api/v1/users/filter", params, nil, &resp); err != nil {
		return nil, err
	}

	customers := make([]entity.Customer, 0, len(resp.Data))
	for _, u := range resp.Data {
		customers = append(customers, entity.Customer{
			ID:        string(u.ID),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Document:  u.Document,
			Email:     u.Email,
			Phone:     u.Phone,
		})
	}
	return customers, nil
}

// RoleIDByName obtiene el ID de un rol
func (c *DirectoryClient) RoleIDByName(ctx context.Context, sess *session.Session, name string) (string, error) {
	var resp RoleResponse
	if err := c.do(ctx, sess, resourceRoles, http.MethodGet, "/api/v1/roles/by-name/"+pathEscape(name), nil, nil, &resp); err != nil {
		return "", err
	}
	return string(resp.ID), nil
}
