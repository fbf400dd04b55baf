// Package tokenledger defines the fungible-token ledger the engine escrows
// bid tokens on. The engine only consumes this interface; it never reaches
// into ledger state directly. Any failure from the ledger is fatal to the
// enclosing engine operation.
package tokenledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Ledger is a standard fungible-token ledger with transfer/approve-pull
// semantics, keyed by token address.
type Ledger interface {
	// Transfer moves amount of token from one account to another.
	Transfer(ctx context.Context, token, from, to common.Address, amount decimal.Decimal) error
	// TransferFrom moves amount of token from owner to `to`, consuming the
	// allowance owner granted to spender.
	TransferFrom(ctx context.Context, token, owner, spender, to common.Address, amount decimal.Decimal) error
	// BalanceOf reports the balance of account for token.
	BalanceOf(ctx context.Context, token, account common.Address) (decimal.Decimal, error)
	// Approve grants spender the right to pull up to amount of token from
	// owner via TransferFrom.
	Approve(ctx context.Context, token, owner, spender common.Address, amount decimal.Decimal) error
}
