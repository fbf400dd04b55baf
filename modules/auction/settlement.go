package auction

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/dexauction/auction-engine/pkg/logger"
	"github.com/dexauction/auction-engine/pkg/logger/slogx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Claimable reports whether account can self-claim a refund from auctionId:
// the auction is closed, the account deposited, its cumulative amount is
// strictly below the leaderboard threshold and it has not claimed yet.
func (e *Engine) Claimable(ctx context.Context, auctionID uint64, account common.Address) (bool, error) {
	auction, err := e.dg.GetAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to load auction")
	}
	if auction.Status != entity.AuctionStatusClosed {
		return false, nil
	}
	bid, err := e.dg.GetBid(ctx, auctionID, account)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to load bid")
	}
	if bid.HasClaimed {
		return false, nil
	}
	return bid.Amount.LessThan(auction.LeaderboardThreshold), nil
}

// ClaimAuction refunds the caller's own deposit from a closed auction.
// Only positions strictly below the leaderboard threshold may self-claim;
// winners are settled by the administrator. Returns the refunded amount.
func (e *Engine) ClaimAuction(ctx context.Context, caller common.Address, auctionID uint64) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, _, _, err := e.begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	auction, err := qtx.GetAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return decimal.Zero, reject(errs.NotFound, "Not found")
		}
		return decimal.Zero, errors.Wrap(err, "failed to load auction")
	}
	if auction.Status != entity.AuctionStatusClosed {
		return decimal.Zero, reject(errs.InvalidState, "In progress")
	}
	bid, err := qtx.GetBid(ctx, auctionID, caller)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return decimal.Zero, reject(errs.NotFound, "Not found")
		}
		return decimal.Zero, errors.Wrap(err, "failed to load bid")
	}
	if bid.HasClaimed {
		return decimal.Zero, reject(errs.Conflict, "Cannot be claimed twice")
	}
	if bid.Amount.GreaterThanOrEqual(auction.LeaderboardThreshold) {
		return decimal.Zero, reject(errs.InvalidState, "Cannot be claimed (in leaderboard)")
	}

	if err := qtx.MarkBidClaimed(ctx, auctionID, caller); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to mark bid claimed")
	}
	err = qtx.AddEvent(ctx, entity.Event{
		Kind:      entity.EventClaimSettled,
		AuctionID: auctionID,
		Account:   caller,
		Amount:    bid.Amount,
		Metadata: map[string]any{
			"initiator": entity.ClaimInitiatorSelf,
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to add event")
	}

	// Claimed flag is recorded before the payout; commit only on success.
	err = e.ledger.Transfer(ctx, e.bidToken, e.escrow, caller, bid.Amount)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to pay out refund")
	}
	if err := qtx.Commit(ctx); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to commit transaction")
	}
	return bid.Amount, nil
}

// ClaimAuctionLeaderboard collects the deposits of leaderboard winners into
// the administrator's account. Administrator only. The whole call fails at
// the first account that has no entry, has already claimed, or sits below
// the threshold. Returns the total amount collected by this call.
func (e *Engine) ClaimAuctionLeaderboard(ctx context.Context, caller common.Address, auctionID uint64, accounts []common.Address) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdministrator(caller); err != nil {
		return decimal.Zero, err
	}

	qtx, params, _, err := e.begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	auction, err := qtx.GetAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return decimal.Zero, reject(errs.NotFound, "Not found")
		}
		return decimal.Zero, errors.Wrap(err, "failed to load auction")
	}
	if auction.Status != entity.AuctionStatusClosed {
		return decimal.Zero, reject(errs.InvalidState, "In progress")
	}

	total := decimal.Zero
	for _, account := range accounts {
		bid, err := qtx.GetBid(ctx, auctionID, account)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return decimal.Zero, reject(errs.InvalidState, "Cannot be claimed (not in leaderboard)")
			}
			return decimal.Zero, errors.Wrap(err, "failed to load bid")
		}
		if bid.HasClaimed {
			return decimal.Zero, reject(errs.Conflict, "Cannot be claimed twice")
		}
		if bid.Amount.LessThan(auction.LeaderboardThreshold) {
			return decimal.Zero, reject(errs.InvalidState, "Cannot be claimed (not in leaderboard)")
		}

		if err := qtx.MarkBidClaimed(ctx, auctionID, account); err != nil {
			return decimal.Zero, errors.Wrap(err, "failed to mark bid claimed")
		}
		err = qtx.AddEvent(ctx, entity.Event{
			Kind:      entity.EventClaimSettled,
			AuctionID: auctionID,
			Account:   account,
			Amount:    bid.Amount,
			Metadata: map[string]any{
				"initiator": entity.ClaimInitiatorAdministrator,
			},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return decimal.Zero, errors.Wrap(err, "failed to add event")
		}
		total = total.Add(bid.Amount)
	}

	params.TotalCollected = params.TotalCollected.Add(total)
	if err := qtx.SetParams(ctx, params); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to update params")
	}

	// One aggregate payout; all winners settle to the administrator.
	if total.IsPositive() {
		err = e.ledger.Transfer(ctx, e.bidToken, e.escrow, e.administrator, total)
		if err != nil {
			return decimal.Zero, errors.Wrap(err, "failed to pay out collection")
		}
	}
	if err := qtx.Commit(ctx); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Leaderboard settled",
		slogx.Uint64("auctionId", auctionID),
		slogx.Int("accounts", len(accounts)),
		slogx.Stringer("collected", total))
	return total, nil
}

// RecoverToken sweeps stray tokens out of escrow to the administrator.
// Administrator only; the bid token itself can never be recovered.
func (e *Engine) RecoverToken(ctx context.Context, caller, token common.Address, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdministrator(caller); err != nil {
		return err
	}
	if token == e.bidToken {
		return reject(errs.InvalidArgument, "Cannot be dex token")
	}
	if !amount.IsPositive() {
		return reject(errs.InvalidArgument, "Amount must be positive")
	}

	qtx, _, _, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	err = qtx.AddEvent(ctx, entity.Event{
		Kind:    entity.EventTokenRecovered,
		Account: caller,
		Amount:  amount,
		Metadata: map[string]any{
			"token": token.Hex(),
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to add event")
	}
	err = e.ledger.Transfer(ctx, token, e.escrow, e.administrator, amount)
	if err != nil {
		return errors.Wrap(err, "failed to transfer recovered tokens")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// TotalCollected returns the lifetime total collected by the administrator
// across all leaderboard settlements.
func (e *Engine) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	params, err := e.dg.GetParams(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to load engine params")
	}
	return params.TotalCollected, nil
}
