// Package memory implements tokenledger.Ledger in process memory. It backs
// tests and ephemeral single-node runs.
package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/internal/tokenledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

type balanceKey struct {
	token   common.Address
	account common.Address
}

type allowanceKey struct {
	token   common.Address
	owner   common.Address
	spender common.Address
}

type Ledger struct {
	mu         sync.Mutex
	balances   map[balanceKey]decimal.Decimal
	allowances map[allowanceKey]decimal.Decimal
}

var _ tokenledger.Ledger = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{
		balances:   make(map[balanceKey]decimal.Decimal),
		allowances: make(map[allowanceKey]decimal.Decimal),
	}
}

// Mint credits amount of token to account. Test and bootstrap helper; a real
// token ledger mints through its own issuance rules.
func (l *Ledger) Mint(token, account common.Address, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := balanceKey{token: token, account: account}
	l.balances[key] = l.balances[key].Add(amount)
}

func (l *Ledger) Transfer(_ context.Context, token, from, to common.Address, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(token, from, to, amount)
}

func (l *Ledger) TransferFrom(_ context.Context, token, owner, spender, to common.Address, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	allowKey := allowanceKey{token: token, owner: owner, spender: spender}
	allowance := l.allowances[allowKey]
	if allowance.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientAllowance, "allowance %s, need %s", allowance, amount)
	}
	if err := l.transfer(token, owner, to, amount); err != nil {
		return err
	}
	l.allowances[allowKey] = allowance.Sub(amount)
	return nil
}

func (l *Ledger) BalanceOf(_ context.Context, token, account common.Address) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{token: token, account: account}], nil
}

func (l *Ledger) Approve(_ context.Context, token, owner, spender common.Address, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey{token: token, owner: owner, spender: spender}] = amount
	return nil
}

func (l *Ledger) transfer(token, from, to common.Address, amount decimal.Decimal) error {
	fromKey := balanceKey{token: token, account: from}
	balance := l.balances[fromKey]
	if balance.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "balance %s, need %s", balance, amount)
	}
	toKey := balanceKey{token: token, account: to}
	l.balances[fromKey] = balance.Sub(amount)
	l.balances[toKey] = l.balances[toKey].Add(amount)
	return nil
}
