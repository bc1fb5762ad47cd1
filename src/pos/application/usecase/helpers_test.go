package usecase_test

import (
	"context"
	"testing"
	"time"

	"pos/src/pos/application/usecase"
	"pos/src/pos/application/usecase/usecasetest"
	"pos/src/pos/domain/port"
	"pos/src/pos/infrastructure/cache"

	"github.com/stretchr/testify/require"
)

const testWindow = 20 * time.Millisecond

type fixture struct {
	backend  *usecasetest.Backend
	journal  *usecasetest.Journal
	terminal *usecase.Terminal
}

func newFixture(t *testing.T, store port.TerminalStore) *fixture {
	t.Helper()

	backend := usecasetest.NewBackend()
	journal := &usecasetest.Journal{}
	deps := usecase.TerminalDeps{
		Cart:           backend,
		Catalog:        backend,
		Directory:      backend,
		Roles:          cache.NewRoleCache(backend),
		Coupons:        backend,
		Loyalty:        backend,
		Registers:      backend,
		Sales:          backend,
		Journal:        journal,
		Store:          store,
		SearchPageSize: 20,
		DebounceWindow: testWindow,
		CustomerRole:   "customer",
	}

	terminal := usecase.NewTerminal(deps, usecasetest.NewSession("7"))
	t.Cleanup(terminal.Close)

	backend.AddProduct("p1", "Yerba", "1", 100, 10)
	backend.AddProduct("p2", "Azúcar", "2", 50, 1)

	return &fixture{backend: backend, journal: journal, terminal: terminal}
}

// withOpenRegister abre la caja en el backend y sincroniza el guard
func (f *fixture) withOpenRegister(t *testing.T) *fixture {
	t.Helper()
	f.backend.OpenRegisterFor("7", 1000)
	_, err := f.terminal.Register.CheckOpen(context.Background())
	require.NoError(t, err)
	return f
}

// withSampleCart carga 2 × Yerba (100) + 1 × Azúcar (50) = 250
func (f *fixture) withSampleCart(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	_, _, err := f.terminal.Cart.AddItem(ctx, "p1", 2)
	require.NoError(t, err)
	_, _, err = f.terminal.Cart.AddItem(ctx, "p2", 1)
	require.NoError(t, err)
	return f
}
