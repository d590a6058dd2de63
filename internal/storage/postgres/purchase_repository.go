package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moog/pokemarket-lts/internal/domain"
)

type PurchaseRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPurchaseRepository(pool *pgxpool.Pool, logger *zap.Logger) *PurchaseRepository {
	return &PurchaseRepository{pool: pool, logger: logger}
}

func (r *PurchaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, r.logger, fn)
}

// GetPokemonForUpdate loads a pokemon and takes a row lock inside the
// context transaction, serializing concurrent purchases of the same row.
func (r *PurchaseRepository) GetPokemonForUpdate(ctx context.Context, uuid string) (domain.Pokemon, error) {
	const query = `
SELECT uuid, name, price, stock, created_at
FROM pokemons
WHERE uuid = $1
FOR UPDATE`

	p, err := r.scanPokemon(r.queryRow(ctx, query, uuid))
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Pokemon{}, domain.ErrPokemonNotFound
		}
		return domain.Pokemon{}, fmt.Errorf("get pokemon for update: %w", err)
	}
	return p, nil
}

// GetPokemon re-reads a pokemon, observing the context transaction's own
// writes. Used to reload state after a decrement.
func (r *PurchaseRepository) GetPokemon(ctx context.Context, uuid string) (domain.Pokemon, error) {
	const query = `
SELECT uuid, name, price, stock, created_at
FROM pokemons
WHERE uuid = $1`

	p, err := r.scanPokemon(r.queryRow(ctx, query, uuid))
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Pokemon{}, domain.ErrPokemonNotFound
		}
		return domain.Pokemon{}, fmt.Errorf("get pokemon: %w", err)
	}
	return p, nil
}

// DecrementStock subtracts quantity inside the context transaction. The
// WHERE guard and the table's CHECK constraint both keep stock from going
// negative; tripping either is an invariant violation, the caller is
// expected to have checked stock first.
func (r *PurchaseRepository) DecrementStock(ctx context.Context, uuid string, quantity int) error {
	const stmt = `
UPDATE pokemons
SET stock = stock - $2, updated_at = NOW()
WHERE uuid = $1 AND stock >= $2`

	tag, err := r.exec(ctx, stmt, uuid, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvariantViolation
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvariantViolation
	}
	return nil
}

func (r *PurchaseRepository) scanPokemon(row pgx.Row) (domain.Pokemon, error) {
	var p domain.Pokemon
	err := row.Scan(&p.UUID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt)
	if err != nil {
		return domain.Pokemon{}, err
	}
	return p, nil
}

func (r *PurchaseRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PurchaseRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
