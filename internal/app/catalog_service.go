package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/moog/pokemarket-lts/internal/clock"
	"github.com/moog/pokemarket-lts/internal/domain"
)

type CatalogRepository interface {
	ListPokemons(ctx context.Context) ([]domain.Pokemon, error)
	CreatePokemon(ctx context.Context, p domain.Pokemon) error
}

type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Pokemon, error) {
	return s.repo.ListPokemons(ctx)
}

type CreatePokemonInput struct {
	Name  string
	Price int64
	Stock int
}

func (s *CatalogService) Create(ctx context.Context, in CreatePokemonInput) (domain.Pokemon, error) {
	if in.Name == "" {
		return domain.Pokemon{}, domain.ErrNameRequired
	}
	if in.Price < 0 {
		return domain.Pokemon{}, domain.ErrInvalidPrice
	}
	if in.Stock < 0 {
		return domain.Pokemon{}, domain.ErrInvalidStock
	}

	pokemon := domain.Pokemon{
		UUID:      uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.Stock,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.CreatePokemon(ctx, pokemon); err != nil {
		return domain.Pokemon{}, err
	}
	return pokemon, nil
}
