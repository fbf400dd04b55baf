package auction

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

// Paginated views return at most size entries starting at cursor, plus the
// next cursor to continue from (0 once the collection is exhausted).

// ViewAuctions lists auctions in id order with their effective status
// resolved against the current block.
func (e *Engine) ViewAuctions(ctx context.Context, cursor, size uint64) ([]entity.Auction, uint64, error) {
	currentBlock, err := e.clock.CurrentBlock(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read current block")
	}
	auctions, err := e.dg.GetAuctions(ctx, cursor, size)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list auctions")
	}
	for i := range auctions {
		auctions[i].Status = auctions[i].EffectiveStatus(currentBlock)
	}
	total, err := e.dg.CountAuctions(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count auctions")
	}
	return auctions, nextCursor(cursor, uint64(len(auctions)), total), nil
}

// ViewBidders lists every distinct account that has ever deposited, in
// first-deposit order.
func (e *Engine) ViewBidders(ctx context.Context, cursor, size uint64) ([]common.Address, uint64, error) {
	bidders, err := e.dg.GetBidders(ctx, cursor, size)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list bidders")
	}
	total, err := e.dg.CountBidders(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count bidders")
	}
	return bidders, nextCursor(cursor, uint64(len(bidders)), total), nil
}

// ViewBidsPerAuction lists the bid entries of one auction in entry order.
func (e *Engine) ViewBidsPerAuction(ctx context.Context, auctionID, cursor, size uint64) ([]entity.Bid, uint64, error) {
	bids, err := e.dg.GetBidsByAuction(ctx, auctionID, cursor, size)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list bids")
	}
	total, err := e.dg.CountBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count bids")
	}
	return bids, nextCursor(cursor, uint64(len(bids)), total), nil
}

// ViewBidderAuctions lists one account's bid entries across all auctions it
// participated in, in auction order.
func (e *Engine) ViewBidderAuctions(ctx context.Context, account common.Address, cursor, size uint64) ([]entity.Bid, uint64, error) {
	bids, err := e.dg.GetBidsByBidder(ctx, account, cursor, size)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list bidder auctions")
	}
	total, err := e.dg.CountBidsByBidder(ctx, account)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count bidder auctions")
	}
	return bids, nextCursor(cursor, uint64(len(bids)), total), nil
}

// ViewWhitelist lists the currently whitelisted accounts. Order is
// consistent for a fixed state but may change across removals.
func (e *Engine) ViewWhitelist(ctx context.Context, cursor, size uint64) ([]common.Address, uint64, error) {
	accounts, err := e.dg.GetWhitelist(ctx, cursor, size)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list whitelist")
	}
	total, err := e.dg.CountWhitelist(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count whitelist")
	}
	return accounts, nextCursor(cursor, uint64(len(accounts)), total), nil
}

// ViewAuctionEvents lists the notifications recorded for one auction in
// emission order.
func (e *Engine) ViewAuctionEvents(ctx context.Context, auctionID, cursor, size uint64) ([]entity.Event, error) {
	events, err := e.dg.GetEventsByAuction(ctx, auctionID, cursor, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}
	return events, nil
}
