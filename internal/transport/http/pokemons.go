package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/moog/pokemarket-lts/internal/app"
	"github.com/moog/pokemarket-lts/internal/domain"
)

// Catalog is the slice of the catalog service the pokemons endpoint needs.
type Catalog interface {
	List(ctx context.Context) ([]domain.Pokemon, error)
	Create(ctx context.Context, in app.CreatePokemonInput) (domain.Pokemon, error)
}

// HandlePokemons serves GET /pokemons (list) and PUT /pokemons (create).
func HandlePokemons(svc Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listPokemons(svc, w, r)
		case http.MethodPut:
			createPokemon(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func listPokemons(svc Catalog, w http.ResponseWriter, r *http.Request) {
	pokemons, err := svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeTryAgain, msgTryAgain)
		return
	}

	out := make([]pokemonResponse, 0, len(pokemons))
	for _, p := range pokemons {
		out = append(out, toPokemonResponse(p))
	}

	writeJSON(w, http.StatusOK, listPokemonsResponse{
		Error:    codeNoError,
		Pokemons: out,
	})
}

func createPokemon(svc Catalog, w http.ResponseWriter, r *http.Request) {
	var req createPokemonRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeTryAgain, "invalid request body")
		return
	}

	pokemon, err := svc.Create(r.Context(), app.CreatePokemonInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired),
			errors.Is(err, domain.ErrInvalidPrice),
			errors.Is(err, domain.ErrInvalidStock):
			writeError(w, http.StatusBadRequest, codeTryAgain, err.Error())
		default:
			writeError(w, http.StatusBadRequest, codeTryAgain, msgTryAgain)
		}
		return
	}

	writeJSON(w, http.StatusOK, createPokemonResponse{
		Error:   codeNoError,
		Pokemon: toPokemonResponse(pokemon),
	})
}

type createPokemonRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type pokemonResponse struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

func toPokemonResponse(p domain.Pokemon) pokemonResponse {
	return pokemonResponse{
		UUID:      p.UUID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

type listPokemonsResponse struct {
	Error    string            `json:"error"`
	Pokemons []pokemonResponse `json:"pokemons"`
}

type createPokemonResponse struct {
	Error   string          `json:"error"`
	Pokemon pokemonResponse `json:"pokemon"`
}
