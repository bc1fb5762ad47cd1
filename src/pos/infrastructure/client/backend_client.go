package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/shared/domain/session"
	"pos/src/shared/infrastructure/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BackendClient cliente HTTP base para el backend REST del sistema de gestión.
// Cada recurso (carrito, productos, cupones, caja...) lo embebe.
type BackendClient struct {
	httpClient *http.Client
	baseURL    string
	validate   *validator.Validate
}

// NewBackendClient crea el cliente base
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		validate: validator.New(),
	}
}

// dataEnvelope respuesta de listados {"data": [...]}
type dataEnvelope[T any] struct {
	Data []T `json:"data" validate:"dive"`
}

// errorBody cuerpo de error del backend
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// flexibleID acepta IDs numéricos o string
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = flexibleID(n.String())
	return nil
}

// do ejecuta la request, traduce errores HTTP a RemoteError y valida la respuesta
func (c *BackendClient) do(
	ctx context.Context,
	sess *session.Session,
	resource, method, path string,
	query url.Values,
	body interface{},
	out interface{},
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil && sess.Token() != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token())
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackend(resource, 0, started)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &entity.RemoteError{Err: fmt.Errorf("error calling %s: %w", resource, err)}
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(resource, resp.StatusCode, started)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.RemoteError{Err: fmt.Errorf("error reading response: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		remote := &entity.RemoteError{
			Status:  resp.StatusCode,
			Message: extractMessage(respBody),
		}
		if !remote.IsNotFound() {
			log.Printf("⚠️  %s %s returned status %d: %s", method, path, resp.StatusCode, remote.UserMessage())
		}
		return remote
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &entity.RemoteError{Err: fmt.Errorf("error parsing %s response: %w", resource, err)}
	}

	if err := c.validate.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return &entity.RemoteError{Err: fmt.Errorf("invalid %s response: %w", resource, err)}
	}

	return nil
}

// extractMessage obtiene el mensaje de error del backend ({"message"} o {"error"})
func extractMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(parsed.Error)
}

// pathEscape escapa un segmento de path
func pathEscape(segment string) string {
	return url.PathEscape(segment)
}
