// Package stream implementa búsquedas con debounce: solo se consulta cuando el texto
// deja de cambiar durante la ventana, se ignoran duplicados consecutivos y
// el resultado de una consulta vieja nunca pisa al de la más reciente.
package stream

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultWindow ventana de quietud por defecto
const DefaultWindow = 300 * time.Millisecond

// FetchFunc ejecuta la consulta remota; debe respetar la cancelación del ctx
type FetchFunc[T any] func(ctx context.Context, query string) T

// Result resultado de una consulta resuelta
type Result[T any] struct {
	Query      string
	Value      T
	Generation uint64
}

// Stream orquesta Submit → debounce → fetch → publicación del último resultado
type Stream[T any] struct {
	window time.Duration
	fetch  FetchFunc[T]

	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	lastIssued string
	issued     bool
	generation uint64
	cancel     context.CancelFunc
	latest     *Result[T]
	closed     bool
}

// New crea un stream con la ventana indicada (<= 0 usa DefaultWindow)
func New[T any](window time.Duration, fetch FetchFunc[T]) *Stream[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Stream[T]{window: window, fetch: fetch}
}

// Submit registra un nuevo texto de búsqueda y reinicia la ventana
func (s *Stream[T]) Submit(query string) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.pending = query
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.fire)
}

// fire se ejecuta al vencer la ventana
func (s *Stream[T]) fire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	query := s.pending
	if s.issued && query == s.lastIssued {
		s.mu.Unlock()
		return
	}

	// La consulta anterior queda obsoleta
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.generation++
	generation := s.generation
	s.lastIssued = query
	s.issued = true
	s.mu.Unlock()

	value := s.fetch(ctx, query)
	s.publish(Result[T]{Query: query, Value: value, Generation: generation})
}

func (s *Stream[T]) publish(result Result[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || result.Generation != s.generation {
		return
	}
	s.latest = &result
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Latest devuelve el último resultado publicado
func (s *Stream[T]) Latest() (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		var zero Result[T]
		return zero, false
	}
	return *s.latest, true
}

// Close detiene el timer y cancela la consulta en curso
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
