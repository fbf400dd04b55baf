// Package memory implements the auction datagateway in process memory.
// Transactions are copy-on-write: mutations apply to a deep copy of the
// state which replaces the live state on Commit, so a failed operation
// leaves no trace.
package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/datagateway"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type bidKey struct {
	auctionID uint64
	bidder    common.Address
}

type state struct {
	params         *entity.EngineParams
	auctions       []entity.Auction
	bids           map[uint64][]entity.Bid // per auction, in entry order
	bidIndex       map[bidKey]int          // position within bids[auctionID]
	bidderAuctions map[common.Address][]uint64
	bidders        []common.Address
	bidderSet      map[common.Address]struct{}
	whitelist      []common.Address
	whitelistIndex map[common.Address]int
	events         []entity.Event
}

func newState() *state {
	return &state{
		bids:           make(map[uint64][]entity.Bid),
		bidIndex:       make(map[bidKey]int),
		bidderAuctions: make(map[common.Address][]uint64),
		bidderSet:      make(map[common.Address]struct{}),
		whitelistIndex: make(map[common.Address]int),
	}
}

func (s *state) clone() *state {
	c := &state{
		auctions:       append([]entity.Auction(nil), s.auctions...),
		bids:           make(map[uint64][]entity.Bid, len(s.bids)),
		bidIndex:       make(map[bidKey]int, len(s.bidIndex)),
		bidderAuctions: make(map[common.Address][]uint64, len(s.bidderAuctions)),
		bidders:        append([]common.Address(nil), s.bidders...),
		bidderSet:      make(map[common.Address]struct{}, len(s.bidderSet)),
		whitelist:      append([]common.Address(nil), s.whitelist...),
		whitelistIndex: make(map[common.Address]int, len(s.whitelistIndex)),
		events:         append([]entity.Event(nil), s.events...),
	}
	if s.params != nil {
		params := *s.params
		c.params = &params
	}
	for id, bids := range s.bids {
		c.bids[id] = append([]entity.Bid(nil), bids...)
	}
	for k, v := range s.bidIndex {
		c.bidIndex[k] = v
	}
	for k, v := range s.bidderAuctions {
		c.bidderAuctions[k] = append([]uint64(nil), v...)
	}
	for k := range s.bidderSet {
		c.bidderSet[k] = struct{}{}
	}
	for k, v := range s.whitelistIndex {
		c.whitelistIndex[k] = v
	}
	return c
}

// pageBounds clamps a cursor/size window to a collection of length total.
func pageBounds(cursor, size, total uint64) (from, to uint64) {
	if cursor >= total {
		return total, total
	}
	end := cursor + size
	if end > total || end < cursor {
		end = total
	}
	return cursor, end
}

type Repository struct {
	mu sync.RWMutex
	s  *state
}

var (
	_ datagateway.AuctionDataGateway       = (*Repository)(nil)
	_ datagateway.AuctionDataGatewayWithTx = (*Tx)(nil)
)

func NewRepository() *Repository {
	return &Repository{s: newState()}
}

func (r *Repository) BeginAuctionTx(_ context.Context) (datagateway.AuctionDataGatewayWithTx, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Tx{r: r, s: r.s.clone()}, nil
}

// Tx is a copy-on-write transaction over the repository state.
type Tx struct {
	r    *Repository
	s    *state
	done bool
}

func (t *Tx) BeginAuctionTx(_ context.Context) (datagateway.AuctionDataGatewayWithTx, error) {
	return nil, errors.New("nested transactions are not supported")
}

func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.r.mu.Lock()
	t.r.s = t.s
	t.r.mu.Unlock()
	t.done = true
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	// Safe to call after Commit; the pending copy is simply discarded.
	t.done = true
	return nil
}

// ---- reads/writes shared by Repository (latest committed state) and Tx ----

func (s *state) getParams() (*entity.EngineParams, error) {
	if s.params == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	params := *s.params
	return &params, nil
}

func (s *state) setParams(params entity.EngineParams) error {
	s.params = &params
	return nil
}

func (s *state) createAuction(auction entity.Auction) error {
	if uint64(len(s.auctions))+1 != auction.ID {
		return errors.Errorf("auction id %d is not sequential", auction.ID)
	}
	s.auctions = append(s.auctions, auction)
	return nil
}

func (s *state) closeAuction(auctionID uint64, threshold decimal.Decimal) error {
	if auctionID == 0 || auctionID > uint64(len(s.auctions)) {
		return errors.WithStack(errs.NotFound)
	}
	a := &s.auctions[auctionID-1]
	a.Status = entity.AuctionStatusClosed
	a.LeaderboardThreshold = threshold
	return nil
}

func (s *state) getAuction(auctionID uint64) (*entity.Auction, error) {
	if auctionID == 0 || auctionID > uint64(len(s.auctions)) {
		return nil, errors.WithStack(errs.NotFound)
	}
	auction := s.auctions[auctionID-1]
	return &auction, nil
}

func (s *state) getLatestAuction() (*entity.Auction, error) {
	if len(s.auctions) == 0 {
		return nil, errors.WithStack(errs.NotFound)
	}
	auction := s.auctions[len(s.auctions)-1]
	return &auction, nil
}

func (s *state) getAuctions(cursor, size uint64) ([]entity.Auction, error) {
	from, to := pageBounds(cursor, size, uint64(len(s.auctions)))
	return append([]entity.Auction(nil), s.auctions[from:to]...), nil
}

func (s *state) createBid(bid entity.Bid) error {
	key := bidKey{auctionID: bid.AuctionID, bidder: bid.Bidder}
	if _, ok := s.bidIndex[key]; ok {
		return errors.Errorf("bid already exists for auction %d", bid.AuctionID)
	}
	s.bidIndex[key] = len(s.bids[bid.AuctionID])
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], bid)
	s.bidderAuctions[bid.Bidder] = append(s.bidderAuctions[bid.Bidder], bid.AuctionID)
	return nil
}

func (s *state) getBidRef(auctionID uint64, bidder common.Address) (*entity.Bid, error) {
	idx, ok := s.bidIndex[bidKey{auctionID: auctionID, bidder: bidder}]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &s.bids[auctionID][idx], nil
}

func (s *state) updateBidAmount(auctionID uint64, bidder common.Address, amount decimal.Decimal) error {
	bid, err := s.getBidRef(auctionID, bidder)
	if err != nil {
		return err
	}
	bid.Amount = amount
	return nil
}

func (s *state) markBidClaimed(auctionID uint64, bidder common.Address) error {
	bid, err := s.getBidRef(auctionID, bidder)
	if err != nil {
		return err
	}
	bid.HasClaimed = true
	return nil
}

func (s *state) getBid(auctionID uint64, bidder common.Address) (*entity.Bid, error) {
	ref, err := s.getBidRef(auctionID, bidder)
	if err != nil {
		return nil, err
	}
	bid := *ref
	return &bid, nil
}

func (s *state) getBidsByAuction(auctionID, cursor, size uint64) ([]entity.Bid, error) {
	bids := s.bids[auctionID]
	from, to := pageBounds(cursor, size, uint64(len(bids)))
	return append([]entity.Bid(nil), bids[from:to]...), nil
}

func (s *state) getBidsByBidder(bidder common.Address, cursor, size uint64) ([]entity.Bid, error) {
	auctionIDs := s.bidderAuctions[bidder]
	from, to := pageBounds(cursor, size, uint64(len(auctionIDs)))
	result := make([]entity.Bid, 0, to-from)
	for _, auctionID := range auctionIDs[from:to] {
		bid, err := s.getBid(auctionID, bidder)
		if err != nil {
			return nil, err
		}
		result = append(result, *bid)
	}
	return result, nil
}

func (s *state) addBidder(account common.Address) (bool, error) {
	if _, ok := s.bidderSet[account]; ok {
		return false, nil
	}
	s.bidderSet[account] = struct{}{}
	s.bidders = append(s.bidders, account)
	return true, nil
}

func (s *state) getBidders(cursor, size uint64) ([]common.Address, error) {
	from, to := pageBounds(cursor, size, uint64(len(s.bidders)))
	return append([]common.Address(nil), s.bidders[from:to]...), nil
}

func (s *state) addWhitelist(account common.Address) (bool, error) {
	if _, ok := s.whitelistIndex[account]; ok {
		return false, nil
	}
	s.whitelistIndex[account] = len(s.whitelist)
	s.whitelist = append(s.whitelist, account)
	return true, nil
}

// removeWhitelist swaps the last entry into the removed slot so removal is
// O(1). Enumeration order after a removal is consistent, not stable.
func (s *state) removeWhitelist(account common.Address) (bool, error) {
	idx, ok := s.whitelistIndex[account]
	if !ok {
		return false, nil
	}
	last := len(s.whitelist) - 1
	if idx != last {
		moved := s.whitelist[last]
		s.whitelist[idx] = moved
		s.whitelistIndex[moved] = idx
	}
	s.whitelist = s.whitelist[:last]
	delete(s.whitelistIndex, account)
	return true, nil
}

func (s *state) isWhitelisted(account common.Address) (bool, error) {
	_, ok := s.whitelistIndex[account]
	return ok, nil
}

func (s *state) getWhitelist(cursor, size uint64) ([]common.Address, error) {
	from, to := pageBounds(cursor, size, uint64(len(s.whitelist)))
	return append([]common.Address(nil), s.whitelist[from:to]...), nil
}

func (s *state) addEvent(event entity.Event) error {
	event.ID = uint64(len(s.events)) + 1
	s.events = append(s.events, event)
	return nil
}

func (s *state) getEventsByAuction(auctionID, cursor, size uint64) ([]entity.Event, error) {
	matched := make([]entity.Event, 0)
	for _, event := range s.events {
		if event.AuctionID == auctionID {
			matched = append(matched, event)
		}
	}
	from, to := pageBounds(cursor, size, uint64(len(matched)))
	return matched[from:to], nil
}
