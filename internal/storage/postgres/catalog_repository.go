package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/moog/pokemarket-lts/internal/domain"
)

type CatalogRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewCatalogRepository(pool *pgxpool.Pool, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{pool: pool, logger: logger}
}

func (r *CatalogRepository) ListPokemons(ctx context.Context) ([]domain.Pokemon, error) {
	const query = `
SELECT uuid, name, price, stock, created_at
FROM pokemons
ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list pokemons: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var pokemons []domain.Pokemon
	for rows.Next() {
		var p domain.Pokemon
		if err := rows.Scan(&p.UUID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan pokemon: %v", domain.ErrStoreUnavailable, err)
		}
		pokemons = append(pokemons, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate pokemons: %v", domain.ErrStoreUnavailable, rows.Err())
	}
	return pokemons, nil
}

func (r *CatalogRepository) CreatePokemon(ctx context.Context, p domain.Pokemon) error {
	const stmt = `
INSERT INTO pokemons (uuid, name, price, stock, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, stmt, p.UUID, p.Name, p.Price, p.Stock, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: create pokemon: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
