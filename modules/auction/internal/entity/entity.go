package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction. Only Pending and
// Closed are ever stored; Open is derived from the current block number, see
// [Auction.EffectiveStatus].
type AuctionStatus string

const (
	AuctionStatusPending AuctionStatus = "pending"
	AuctionStatusOpen    AuctionStatus = "open"
	AuctionStatusClosed  AuctionStatus = "closed"
)

// Auction is one scheduled bidding round. IDs are sequential starting at 1;
// at most one auction is unclosed at any time.
type Auction struct {
	ID                   uint64
	Status               AuctionStatus
	StartBlock           uint64
	EndBlock             uint64
	InitialBidAmount     decimal.Decimal
	LeaderboardSize      uint32
	LeaderboardThreshold decimal.Decimal
}

// EffectiveStatus resolves the lazy Pending to Open transition against the
// current block number. The transition is never stored.
func (a Auction) EffectiveStatus(currentBlock uint64) AuctionStatus {
	if a.Status == AuctionStatusClosed {
		return AuctionStatusClosed
	}
	if currentBlock >= a.StartBlock {
		return AuctionStatusOpen
	}
	return AuctionStatusPending
}

// Bid is the cumulative deposit of one bidder in one auction. Amount only
// grows while the auction is open; HasClaimed flips false to true exactly
// once during settlement.
type Bid struct {
	AuctionID  uint64
	Bidder     common.Address
	Amount     decimal.Decimal
	HasClaimed bool
	// EntryIndex is the bidder's first-deposit position within the auction,
	// used for stable enumeration.
	EntryIndex uint64
}

// EngineParams is the persisted mutable engine configuration plus the
// lifetime settlement counter.
type EngineParams struct {
	Operator         common.Address
	MaxAuctionLength uint64
	TotalCollected   decimal.Decimal
}

type EventKind string

const (
	EventAuctionStarted   EventKind = "auction_started"
	EventBidDeposited     EventKind = "bid_deposited"
	EventAuctionClosed    EventKind = "auction_closed"
	EventClaimSettled     EventKind = "claim_settled"
	EventWhitelistAdded   EventKind = "whitelist_added"
	EventWhitelistRemoved EventKind = "whitelist_removed"
	EventMaxLengthChanged EventKind = "max_length_changed"
	EventTokenRecovered   EventKind = "token_recovered"
	EventOperatorChanged  EventKind = "operator_changed"
)

// Claim initiator values recorded on claim_settled events.
const (
	ClaimInitiatorSelf          = "self"
	ClaimInitiatorAdministrator = "administrator"
)

// Event is one notification emitted by a successful mutating operation.
// Exactly one event is recorded per state change; claim and whitelist
// operations record one per account processed.
type Event struct {
	ID        uint64
	Kind      EventKind
	AuctionID uint64 // 0 when the event is not tied to an auction
	Account   common.Address
	Amount    decimal.Decimal
	Metadata  map[string]any
	CreatedAt time.Time
}
