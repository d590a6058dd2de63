package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moog/pokemarket-lts/internal/app"
	"github.com/moog/pokemarket-lts/internal/domain"
)

// PokemonBuyer is the slice of the purchase service the buy endpoint needs.
type PokemonBuyer interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (app.PurchaseResult, error)
}

// HandleBuyPokemon serves POST /pokemons/buy. Business-rule rejections keep
// their specific code and status; everything else collapses to the generic
// purchase_failed response without leaking internal detail.
func HandleBuyPokemon(svc PokemonBuyer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req buyPokemonRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codePurchaseFailed, "invalid request body")
			return
		}

		res, err := svc.Purchase(r.Context(), app.PurchaseInput{
			UUID:     req.UUID,
			Quantity: req.Quantity,
		})
		if err != nil {
			var outOfStock *domain.OutOfStockError
			switch {
			case errors.Is(err, domain.ErrPokemonNotFound):
				writeError(w, http.StatusNotFound, codePokemonNonexistent, "this pokemon does not exist")
			case errors.Is(err, domain.ErrPurchaseTooExpensive):
				writeError(w, http.StatusBadRequest, codeExpensive, "the total amount of this purchase is too high, please be more humble")
			case errors.As(err, &outOfStock):
				writeError(w, http.StatusBadRequest, codeOutOfStock, outOfStock.Error())
			case errors.Is(err, domain.ErrStockUpdate):
				writeError(w, http.StatusBadRequest, codeDbStock, "error while updating the pokemon stock, try again later")
			case errors.Is(err, domain.ErrInvalidQuantity):
				writeError(w, http.StatusBadRequest, codePurchaseFailed, "quantity must be greater than zero")
			default:
				writeError(w, http.StatusBadRequest, codePurchaseFailed, "the purchase failed, try again later")
			}
			return
		}

		writeJSON(w, http.StatusOK, buyPokemonResponse{
			Error:             codeNoError,
			TransactionStatus: string(res.TransactionStatus),
		})
	}
}

type buyPokemonRequest struct {
	UUID     string `json:"uuid"`
	Quantity int    `json:"quantity"`
}

type buyPokemonResponse struct {
	Error             string `json:"error"`
	TransactionStatus string `json:"transactionStatus"`
}
