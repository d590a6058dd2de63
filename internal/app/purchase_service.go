package app

import (
	"context"
	"fmt"

	"github.com/moog/pokemarket-lts/internal/domain"
	"github.com/moog/pokemarket-lts/internal/payment"
)

type PurchaseRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetPokemonForUpdate(ctx context.Context, uuid string) (domain.Pokemon, error)
	GetPokemon(ctx context.Context, uuid string) (domain.Pokemon, error)
	DecrementStock(ctx context.Context, uuid string, quantity int) error
}

// PaymentGateway is the slice of the payment client the purchase flow needs.
type PaymentGateway interface {
	IsValidAmount(amount int64) bool
	Transaction(ctx context.Context, info payment.TransactionInfo) (payment.TransactionResult, error)
}

// PurchaseService coordinates stock reservation and payment confirmation as
// one atomic unit: both land together on commit, or neither does.
type PurchaseService struct {
	repo    PurchaseRepository
	gateway PaymentGateway
}

func NewPurchaseService(repo PurchaseRepository, gateway PaymentGateway) *PurchaseService {
	return &PurchaseService{
		repo:    repo,
		gateway: gateway,
	}
}

type PurchaseInput struct {
	UUID     string
	Quantity int
}

type PurchaseResult struct {
	TransactionStatus payment.TransactionStatus
}

// Purchase runs the whole flow inside one database transaction. Stock is
// decremented before the gateway call and the transaction only commits on a
// paid result, so a declined or failed payment undoes the decrement. The
// transaction stays open across the gateway call.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if in.Quantity <= 0 {
		return PurchaseResult{}, domain.ErrInvalidQuantity
	}

	var result PurchaseResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		pokemon, err := s.repo.GetPokemonForUpdate(txCtx, in.UUID)
		if err != nil {
			return err
		}

		totalAmount := int64(in.Quantity) * pokemon.Price
		if !s.gateway.IsValidAmount(totalAmount) {
			return domain.ErrPurchaseTooExpensive
		}

		if pokemon.Stock < in.Quantity {
			return &domain.OutOfStockError{Name: pokemon.Name, Stock: pokemon.Stock}
		}

		if err := s.repo.DecrementStock(txCtx, in.UUID, in.Quantity); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStockUpdate, err)
		}

		// Reload so the gateway metadata reflects the post-decrement row.
		pokemon, err = s.repo.GetPokemon(txCtx, in.UUID)
		if err != nil {
			return fmt.Errorf("reload pokemon: %w", err)
		}

		transaction, err := s.gateway.Transaction(txCtx, payment.TransactionInfo{
			Amount:        totalAmount,
			PaymentMethod: payment.MethodCreditCard,
			Card:          payment.SandboxCard,
			Metadata: payment.Metadata{
				Product:  "pokemon",
				Name:     pokemon.Name,
				Quantity: in.Quantity,
			},
		})
		if err != nil {
			return err
		}

		if transaction.Status != payment.StatusPaid {
			return fmt.Errorf("%w: status %s", domain.ErrPaymentDeclined, transaction.Status)
		}

		result = PurchaseResult{TransactionStatus: transaction.Status}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return result, nil
}
