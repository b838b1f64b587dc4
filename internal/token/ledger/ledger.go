// Package ledger defines the account-balance operations backing token
// payouts and mints. Implementations must be safe to call inside a storage
// transaction so balance movements commit or roll back with the records
// that caused them.
package ledger

import (
	"context"

	apperrors "github.com/medinex-ai/registry/internal/errors"
	"github.com/medinex-ai/registry/internal/identity"
)

// ErrInsufficientBalance indicates a transfer exceeding the source balance.
var ErrInsufficientBalance = apperrors.New(apperrors.CodeInsufficientTokenBalance, "insufficient token balance")

// Ledger moves token balances between accounts. Accounts are created
// implicitly on first credit.
type Ledger interface {
	// Transfer debits from and credits to atomically. Fails with
	// ErrInsufficientBalance when from holds less than amount.
	Transfer(ctx context.Context, from, to identity.ID, amount uint64) error
	// Mint credits newly issued supply to an account.
	Mint(ctx context.Context, to identity.ID, amount uint64) error
	// Balance reports the current balance of an account. Unknown accounts
	// report zero.
	Balance(ctx context.Context, account identity.ID) (uint64, error)
}
