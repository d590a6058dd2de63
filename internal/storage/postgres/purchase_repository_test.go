package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/moog/pokemarket-lts/internal/domain"
	"github.com/moog/pokemarket-lts/internal/testutil"
)

func TestPurchaseRepository_GetPokemonForUpdate(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewPurchaseRepository(pool, zap.NewNop())
	uuid := testutil.InsertPokemon(t, ctx, pool, "Charizard", 214792, 9999)

	t.Run("returns the pokemon", func(t *testing.T) {
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			p, err := repo.GetPokemonForUpdate(txCtx, uuid)
			if err != nil {
				return err
			}
			if p.UUID != uuid || p.Name != "Charizard" || p.Price != 214792 || p.Stock != 9999 {
				t.Fatalf("unexpected pokemon %+v", p)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("unknown uuid maps to not found", func(t *testing.T) {
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			_, err := repo.GetPokemonForUpdate(txCtx, "9afc8409-2890-4e3f-b365-deaaf2b28e01")
			return err
		})
		if !errors.Is(err, domain.ErrPokemonNotFound) {
			t.Fatalf("expected ErrPokemonNotFound, got %v", err)
		}
	})

	t.Run("malformed uuid maps to not found", func(t *testing.T) {
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			_, err := repo.GetPokemonForUpdate(txCtx, "not-a-uuid")
			return err
		})
		if !errors.Is(err, domain.ErrPokemonNotFound) {
			t.Fatalf("expected ErrPokemonNotFound, got %v", err)
		}
	})
}

func TestPurchaseRepository_DecrementStock(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	repo := NewPurchaseRepository(pool, zap.NewNop())

	t.Run("commits the decrement and reload observes it", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		uuid := testutil.InsertPokemon(t, ctx, pool, "Pikachu", 100, 10)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.DecrementStock(txCtx, uuid, 4); err != nil {
				return err
			}
			p, err := repo.GetPokemon(txCtx, uuid)
			if err != nil {
				return err
			}
			// Read-your-own-writes inside the transaction.
			if p.Stock != 6 {
				t.Fatalf("expected in-tx stock 6, got %d", p.Stock)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := testutil.GetStock(t, ctx, pool, uuid); got != 6 {
			t.Fatalf("expected committed stock 6, got %d", got)
		}
	})

	t.Run("underflow is an invariant violation", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		uuid := testutil.InsertPokemon(t, ctx, pool, "Pikachu", 100, 3)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.DecrementStock(txCtx, uuid, 4)
		})
		if !errors.Is(err, domain.ErrInvariantViolation) {
			t.Fatalf("expected ErrInvariantViolation, got %v", err)
		}
		if got := testutil.GetStock(t, ctx, pool, uuid); got != 3 {
			t.Fatalf("expected stock unchanged, got %d", got)
		}
	})

	t.Run("error in the closure rolls the decrement back", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		uuid := testutil.InsertPokemon(t, ctx, pool, "Pikachu", 100, 10)

		sentinel := errors.New("payment fell through")
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.DecrementStock(txCtx, uuid, 4); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if got := testutil.GetStock(t, ctx, pool, uuid); got != 10 {
			t.Fatalf("expected stock restored to 10, got %d", got)
		}
	})
}

func TestPurchaseRepository_ConcurrentDecrementsNeverGoNegative(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewPurchaseRepository(pool, zap.NewNop())
	uuid := testutil.InsertPokemon(t, ctx, pool, "Snorlax", 100, 5)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.WithTx(ctx, func(txCtx context.Context) error {
				p, err := repo.GetPokemonForUpdate(txCtx, uuid)
				if err != nil {
					return err
				}
				if p.Stock < 1 {
					return &domain.OutOfStockError{Name: p.Name, Stock: p.Stock}
				}
				return repo.DecrementStock(txCtx, uuid, 1)
			})
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var outOfStock *domain.OutOfStockError
		if !errors.As(err, &outOfStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful decrements, got %d", succeeded)
	}
	if got := testutil.GetStock(t, ctx, pool, uuid); got != 0 {
		t.Fatalf("expected final stock 0, got %d", got)
	}
}
