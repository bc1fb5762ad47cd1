package cache

import (
	"context"
	"log"
	"strings"
	"sync"

	"pos/src/pos/domain/port"
	"pos/src/shared/domain/session"
)

// RoleCache cache en memoria de IDs de rol por nombre.
// Solo se memorizan las resoluciones exitosas; un fallo se reintenta en la próxima búsqueda.
type RoleCache struct {
	directory port.DirectoryGateway
	roles     map[string]string
	mu        sync.RWMutex
}

// NewRoleCache crea un nuevo cache de roles
func NewRoleCache(directory port.DirectoryGateway) *RoleCache {
	return &RoleCache{
		directory: directory,
		roles:     make(map[string]string),
	}
}

// Get obtiene un ID ya resuelto
func (c *RoleCache) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.roles[strings.ToLower(name)]
	return id, ok
}

// ResolveRoleID devuelve el ID memorizado o lo busca en el backend
func (c *RoleCache) ResolveRoleID(ctx context.Context, sess *session.Session, name string) (string, error) {
	if id, ok := c.Get(name); ok {
		return id, nil
	}

	id, err := c.directory.RoleIDByName(ctx, sess, name)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.roles[strings.ToLower(name)] = id
	c.mu.Unlock()

	log.Printf("✅ Role %q resolved to id %s", name, id)
	return id, nil
}
