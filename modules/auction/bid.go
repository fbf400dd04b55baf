package auction

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// PlaceBid deposits amount of the bid token into the caller's cumulative
// position in the open auction. The caller must be whitelisted and must have
// approved the escrow account to pull the amount.
//
// The first deposit of a caller must be a positive integer multiple of the
// auction's initial bid amount; every later deposit must be a positive
// integer multiple of the sub-unit (initial bid amount divided by the
// configured divisor).
func (e *Engine) PlaceBid(ctx context.Context, caller common.Address, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, _, currentBlock, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	whitelisted, err := qtx.IsWhitelisted(ctx, caller)
	if err != nil {
		return errors.Wrap(err, "failed to check whitelist")
	}
	if !whitelisted {
		return reject(errs.Unauthorized, "Not whitelisted")
	}

	latest, err := qtx.GetLatestAuction(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return reject(errs.InvalidState, "Too early")
		}
		return errors.Wrap(err, "failed to load latest auction")
	}
	switch {
	case latest.Status == entity.AuctionStatusClosed:
		return reject(errs.InvalidState, "Too late")
	case currentBlock < latest.StartBlock:
		return reject(errs.InvalidState, "Too early")
	case currentBlock > latest.EndBlock:
		return reject(errs.InvalidState, "Too late")
	}

	existing, err := qtx.GetBid(ctx, latest.ID, caller)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to load bid")
	}

	if existing == nil {
		if !isMultipleOf(amount, latest.InitialBidAmount) {
			return reject(errs.InvalidArgument, "Incorrect initial bid amount")
		}
		entryIndex, err := qtx.CountBidsByAuction(ctx, latest.ID)
		if err != nil {
			return errors.Wrap(err, "failed to count bids")
		}
		err = qtx.CreateBid(ctx, entity.Bid{
			AuctionID:  latest.ID,
			Bidder:     caller,
			Amount:     amount,
			EntryIndex: entryIndex,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create bid")
		}
		if _, err := qtx.AddBidder(ctx, caller); err != nil {
			return errors.Wrap(err, "failed to register bidder")
		}
	} else {
		subUnit := latest.InitialBidAmount.Div(e.subUnitDivisor)
		if !isMultipleOf(amount, subUnit) {
			return reject(errs.InvalidArgument, "Incorrect amount")
		}
		err = qtx.UpdateBidAmount(ctx, latest.ID, caller, existing.Amount.Add(amount))
		if err != nil {
			return errors.Wrap(err, "failed to update bid")
		}
	}

	err = qtx.AddEvent(ctx, entity.Event{
		Kind:      entity.EventBidDeposited,
		AuctionID: latest.ID,
		Account:   caller,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to add event")
	}

	// Bookkeeping is recorded before the token pull so a recursive caller
	// observes post-update state; the transaction commits only if the pull
	// succeeds.
	err = e.ledger.TransferFrom(ctx, e.bidToken, caller, e.escrow, e.escrow, amount)
	if err != nil {
		return errors.Wrap(err, "failed to pull bid tokens")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
