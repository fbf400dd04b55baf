// Package postgres implements tokenledger.Ledger on a postgres database for
// standalone deployments where no external token ledger is wired in.
package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/internal/postgres"
	"github.com/dexauction/auction-engine/internal/tokenledger"
	"github.com/dexauction/auction-engine/pkg/decimals"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

type Ledger struct {
	db postgres.DB
}

var _ tokenledger.Ledger = (*Ledger)(nil)

func NewLedger(db postgres.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Transfer(ctx context.Context, token, from, to common.Address, amount decimal.Decimal) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := transfer(ctx, tx, token, from, to, amount); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "failed to commit transaction")
}

func (l *Ledger) TransferFrom(ctx context.Context, token, owner, spender, to common.Address, amount decimal.Decimal) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rawAllowance pgtype.Numeric
	err = tx.QueryRow(ctx,
		`SELECT amount FROM token_allowances WHERE token = $1 AND owner = $2 AND spender = $3 FOR UPDATE`,
		token.Hex(), owner.Hex(), spender.Hex(),
	).Scan(&rawAllowance)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(ErrInsufficientAllowance, "no allowance")
	}
	if err != nil {
		return errors.Wrap(err, "failed to query allowance")
	}
	allowance, err := decimals.FromNumeric(rawAllowance)
	if err != nil {
		return errors.Wrap(err, "invalid allowance value")
	}
	if allowance.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientAllowance, "allowance %s, need %s", allowance, amount)
	}

	if err := transfer(ctx, tx, token, owner, to, amount); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE token_allowances SET amount = $4 WHERE token = $1 AND owner = $2 AND spender = $3`,
		token.Hex(), owner.Hex(), spender.Hex(), decimals.ToNumeric(allowance.Sub(amount)),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update allowance")
	}
	return errors.Wrap(tx.Commit(ctx), "failed to commit transaction")
}

func (l *Ledger) BalanceOf(ctx context.Context, token, account common.Address) (decimal.Decimal, error) {
	var raw pgtype.Numeric
	err := l.db.QueryRow(ctx,
		`SELECT amount FROM token_balances WHERE token = $1 AND account = $2`,
		token.Hex(), account.Hex(),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to query balance")
	}
	balance, err := decimals.FromNumeric(raw)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "invalid balance value")
	}
	return balance, nil
}

func (l *Ledger) Approve(ctx context.Context, token, owner, spender common.Address, amount decimal.Decimal) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO token_allowances (token, owner, spender, amount) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token, owner, spender) DO UPDATE SET amount = EXCLUDED.amount`,
		token.Hex(), owner.Hex(), spender.Hex(), decimals.ToNumeric(amount),
	)
	return errors.Wrap(err, "failed to upsert allowance")
}

// Mint credits amount of token to account. Bootstrap helper for standalone
// deployments.
func (l *Ledger) Mint(ctx context.Context, token, account common.Address, amount decimal.Decimal) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO token_balances (token, account, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (token, account) DO UPDATE SET amount = token_balances.amount + EXCLUDED.amount`,
		token.Hex(), account.Hex(), decimals.ToNumeric(amount),
	)
	return errors.Wrap(err, "failed to mint")
}

func transfer(ctx context.Context, tx pgx.Tx, token, from, to common.Address, amount decimal.Decimal) error {
	var rawBalance pgtype.Numeric
	err := tx.QueryRow(ctx,
		`SELECT amount FROM token_balances WHERE token = $1 AND account = $2 FOR UPDATE`,
		token.Hex(), from.Hex(),
	).Scan(&rawBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(ErrInsufficientBalance, "no balance")
	}
	if err != nil {
		return errors.Wrap(err, "failed to query balance")
	}
	balance, err := decimals.FromNumeric(rawBalance)
	if err != nil {
		return errors.Wrap(err, "invalid balance value")
	}
	if balance.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "balance %s, need %s", balance, amount)
	}

	_, err = tx.Exec(ctx,
		`UPDATE token_balances SET amount = $3 WHERE token = $1 AND account = $2`,
		token.Hex(), from.Hex(), decimals.ToNumeric(balance.Sub(amount)),
	)
	if err != nil {
		return errors.Wrap(err, "failed to debit sender")
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO token_balances (token, account, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (token, account) DO UPDATE SET amount = token_balances.amount + EXCLUDED.amount`,
		token.Hex(), to.Hex(), decimals.ToNumeric(amount),
	)
	return errors.Wrap(err, "failed to credit recipient")
}
