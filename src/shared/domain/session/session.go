// Package session contiene la identidad del operador que se inyecta en cada componente.
// El token lo emite el backend; el servicio verifica la firma con el secreto compartido.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenRequired    = errors.New("bearer token is required")
	ErrOperatorNotFound = errors.New("token does not identify an operator")
	ErrSecretMissing    = errors.New("jwt secret is not configured")
)

// Claims claims que el backend incluye en el token
type Claims struct {
	UserID any      `json:"user_id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Role   string   `json:"role,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Verifier valida tokens HMAC con el secreto compartido con el backend
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify valida firma y expiración y devuelve los claims
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		if len(v.secret) == 0 {
			return nil, ErrSecretMissing
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// New crea la sesión a partir de un bearer token verificado
func (v *Verifier) New(token string) (*Session, error) {
	s := &Session{verifier: v}
	if err := s.Refresh(token); err != nil {
		return nil, err
	}
	return s, nil
}

// FromHeader extrae el token de un header "Authorization: Bearer <token>"
func (v *Verifier) FromHeader(header string) (*Session, error) {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return nil, ErrTokenRequired
	}
	return v.New(strings.TrimSpace(token))
}

// Session identidad del operador con ciclo de vida explícito Refresh/Clear
type Session struct {
	verifier *Verifier

	mu         sync.RWMutex
	token      string
	operatorID string
	name       string
	roles      []string
}

// Refresh verifica el token nuevo y reemplaza la identidad.
// Si la verificación falla la sesión queda como estaba.
func (s *Session) Refresh(token string) error {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return err
	}

	operatorID := claimString(claims.UserID)
	if operatorID == "" {
		operatorID = claims.Subject
	}
	if operatorID == "" {
		return ErrOperatorNotFound
	}

	roles := append([]string(nil), claims.Roles...)
	if claims.Role != "" {
		roles = append(roles, claims.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.operatorID = operatorID
	s.name = claims.Name
	s.roles = roles
	return nil
}

// Clear olvida la identidad (logout)
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.operatorID = ""
	s.name = ""
	s.roles = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) OperatorID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.operatorID
}

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.roles...)
}

// Authenticated indica si hay un token cargado
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func claimString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}
