package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/modules/auction/datagateway"
	"github.com/dexauction/auction-engine/pkg/logger"
	"github.com/jackc/pgx/v5"
)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

func (repo *Repository) BeginAuctionTx(ctx context.Context) (datagateway.AuctionDataGatewayWithTx, error) {
	if repo.tx != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	tx, err := repo.db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &Repository{db: repo.db, q: tx, tx: tx}, nil
}

func (repo *Repository) Commit(ctx context.Context) error {
	if repo.tx == nil {
		return nil
	}
	if err := repo.tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	repo.tx = nil
	repo.q = repo.db
	return nil
}

func (repo *Repository) Rollback(ctx context.Context) error {
	if repo.tx == nil {
		return nil
	}
	err := repo.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, "failed to rollback transaction")
	}
	if err == nil {
		logger.DebugContext(ctx, "rolled back transaction")
	}
	repo.tx = nil
	repo.q = repo.db
	return nil
}
