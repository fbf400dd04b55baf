package memory

import (
	"context"

	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Repository methods read/write the latest committed state; Tx methods
// operate on the transaction's private copy.

func (r *Repository) GetParams(_ context.Context) (*entity.EngineParams, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getParams()
}

func (r *Repository) SetParams(_ context.Context, params entity.EngineParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.setParams(params)
}

func (r *Repository) CreateAuction(_ context.Context, auction entity.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.createAuction(auction)
}

func (r *Repository) CloseAuction(_ context.Context, auctionID uint64, threshold decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.closeAuction(auctionID, threshold)
}

func (r *Repository) GetAuction(_ context.Context, auctionID uint64) (*entity.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getAuction(auctionID)
}

func (r *Repository) GetLatestAuction(_ context.Context) (*entity.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getLatestAuction()
}

func (r *Repository) GetAuctions(_ context.Context, cursor, size uint64) ([]entity.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getAuctions(cursor, size)
}

func (r *Repository) CountAuctions(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.s.auctions)), nil
}

func (r *Repository) CreateBid(_ context.Context, bid entity.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.createBid(bid)
}

func (r *Repository) UpdateBidAmount(_ context.Context, auctionID uint64, bidder common.Address, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.updateBidAmount(auctionID, bidder, amount)
}

func (r *Repository) MarkBidClaimed(_ context.Context, auctionID uint64, bidder common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.markBidClaimed(auctionID, bidder)
}

func (r *Repository) GetBid(_ context.Context, auctionID uint64, bidder common.Address) (*entity.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getBid(auctionID, bidder)
}

func (r *Repository) GetBidsByAuction(_ context.Context, auctionID uint64, cursor, size uint64) ([]entity.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getBidsByAuction(auctionID, cursor, size)
}

func (r *Repository) CountBidsByAuction(_ context.Context, auctionID uint64) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.s.bids[auctionID])), nil
}

func (r *Repository) GetBidsByBidder(_ context.Context, bidder common.Address, cursor, size uint64) ([]entity.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getBidsByBidder(bidder, cursor, size)
}

func (r *Repository) CountBidsByBidder(_ context.Context, bidder common.Address) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.s.bidderAuctions[bidder])), nil
}

func (r *Repository) AddBidder(_ context.Context, account common.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.addBidder(account)
}

func (r *Repository) GetBidders(_ context.Context, cursor, size uint64) ([]common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getBidders(cursor, size)
}

func (r *Repository) CountBidders(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.s.bidders)), nil
}

func (r *Repository) AddWhitelist(_ context.Context, account common.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.addWhitelist(account)
}

func (r *Repository) RemoveWhitelist(_ context.Context, account common.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.removeWhitelist(account)
}

func (r *Repository) IsWhitelisted(_ context.Context, account common.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.isWhitelisted(account)
}

func (r *Repository) GetWhitelist(_ context.Context, cursor, size uint64) ([]common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getWhitelist(cursor, size)
}

func (r *Repository) CountWhitelist(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.s.whitelist)), nil
}

func (r *Repository) AddEvent(_ context.Context, event entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.addEvent(event)
}

func (r *Repository) GetEventsByAuction(_ context.Context, auctionID uint64, cursor, size uint64) ([]entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.getEventsByAuction(auctionID, cursor, size)
}

func (t *Tx) GetParams(_ context.Context) (*entity.EngineParams, error) {
	return t.s.getParams()
}

func (t *Tx) SetParams(_ context.Context, params entity.EngineParams) error {
	return t.s.setParams(params)
}

func (t *Tx) CreateAuction(_ context.Context, auction entity.Auction) error {
	return t.s.createAuction(auction)
}

func (t *Tx) CloseAuction(_ context.Context, auctionID uint64, threshold decimal.Decimal) error {
	return t.s.closeAuction(auctionID, threshold)
}

func (t *Tx) GetAuction(_ context.Context, auctionID uint64) (*entity.Auction, error) {
	return t.s.getAuction(auctionID)
}

func (t *Tx) GetLatestAuction(_ context.Context) (*entity.Auction, error) {
	return t.s.getLatestAuction()
}

func (t *Tx) GetAuctions(_ context.Context, cursor, size uint64) ([]entity.Auction, error) {
	return t.s.getAuctions(cursor, size)
}

func (t *Tx) CountAuctions(_ context.Context) (uint64, error) {
	return uint64(len(t.s.auctions)), nil
}

func (t *Tx) CreateBid(_ context.Context, bid entity.Bid) error {
	return t.s.createBid(bid)
}

func (t *Tx) UpdateBidAmount(_ context.Context, auctionID uint64, bidder common.Address, amount decimal.Decimal) error {
	return t.s.updateBidAmount(auctionID, bidder, amount)
}

func (t *Tx) MarkBidClaimed(_ context.Context, auctionID uint64, bidder common.Address) error {
	return t.s.markBidClaimed(auctionID, bidder)
}

func (t *Tx) GetBid(_ context.Context, auctionID uint64, bidder common.Address) (*entity.Bid, error) {
	return t.s.getBid(auctionID, bidder)
}

func (t *Tx) GetBidsByAuction(_ context.Context, auctionID uint64, cursor, size uint64) ([]entity.Bid, error) {
	return t.s.getBidsByAuction(auctionID, cursor, size)
}

func (t *Tx) CountBidsByAuction(_ context.Context, auctionID uint64) (uint64, error) {
	return uint64(len(t.s.bids[auctionID])), nil
}

func (t *Tx) GetBidsByBidder(_ context.Context, bidder common.Address, cursor, size uint64) ([]entity.Bid, error) {
	return t.s.getBidsByBidder(bidder, cursor, size)
}

func (t *Tx) CountBidsByBidder(_ context.Context, bidder common.Address) (uint64, error) {
	return uint64(len(t.s.bidderAuctions[bidder])), nil
}

func (t *Tx) AddBidder(_ context.Context, account common.Address) (bool, error) {
	return t.s.addBidder(account)
}

func (t *Tx) GetBidders(_ context.Context, cursor, size uint64) ([]common.Address, error) {
	return t.s.getBidders(cursor, size)
}

func (t *Tx) CountBidders(_ context.Context) (uint64, error) {
	return uint64(len(t.s.bidders)), nil
}

func (t *Tx) AddWhitelist(_ context.Context, account common.Address) (bool, error) {
	return t.s.addWhitelist(account)
}

func (t *Tx) RemoveWhitelist(_ context.Context, account common.Address) (bool, error) {
	return t.s.removeWhitelist(account)
}

func (t *Tx) IsWhitelisted(_ context.Context, account common.Address) (bool, error) {
	return t.s.isWhitelisted(account)
}

func (t *Tx) GetWhitelist(_ context.Context, cursor, size uint64) ([]common.Address, error) {
	return t.s.getWhitelist(cursor, size)
}

func (t *Tx) CountWhitelist(_ context.Context) (uint64, error) {
	return uint64(len(t.s.whitelist)), nil
}

func (t *Tx) AddEvent(_ context.Context, event entity.Event) error {
	return t.s.addEvent(event)
}

func (t *Tx) GetEventsByAuction(_ context.Context, auctionID uint64, cursor, size uint64) ([]entity.Event, error) {
	return t.s.getEventsByAuction(auctionID, cursor, size)
}
