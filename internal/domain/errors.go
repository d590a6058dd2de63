package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPokemonNotFound      = errors.New("pokemon not found")
	ErrPurchaseTooExpensive = errors.New("purchase amount above gateway ceiling")
	ErrStockUpdate          = errors.New("stock update failed")
	ErrInvariantViolation   = errors.New("stock would go negative")
	ErrPaymentDeclined      = errors.New("payment not accepted")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrNameRequired         = errors.New("name required")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidStock         = errors.New("invalid stock")
)

// OutOfStockError reports a purchase that asked for more units than remain.
// It keeps the pokemon name and current stock so the response can name them.
type OutOfStockError struct {
	Name  string
	Stock int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("we only have %d %s in stock", e.Stock, e.Name)
}
