package datagateway

import (
	"context"

	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// AuctionDataGateway owns all persistent engine state: auctions, bids, the
// whitelist, the bidder registry, engine params and the event log. Reads
// outside a transaction observe the latest committed state. Every mutating
// engine operation runs inside one transaction obtained from BeginAuctionTx;
// partial failures never persist.
//
// Lookup methods return errs.NotFound when the requested record does not
// exist. Paginated reads return at most `size` records starting at offset
// `cursor`, in a deterministic order that is consistent for a fixed state.
type AuctionDataGateway interface {
	BeginAuctionTx(ctx context.Context) (AuctionDataGatewayWithTx, error)

	GetParams(ctx context.Context) (*entity.EngineParams, error)
	SetParams(ctx context.Context, params entity.EngineParams) error

	CreateAuction(ctx context.Context, auction entity.Auction) error
	// CloseAuction stores the clearing threshold and flips the auction to
	// closed. Closed is terminal.
	CloseAuction(ctx context.Context, auctionID uint64, threshold decimal.Decimal) error
	GetAuction(ctx context.Context, auctionID uint64) (*entity.Auction, error)
	// GetLatestAuction returns the auction with the highest id.
	GetLatestAuction(ctx context.Context) (*entity.Auction, error)
	GetAuctions(ctx context.Context, cursor, size uint64) ([]entity.Auction, error)
	CountAuctions(ctx context.Context) (uint64, error)

	CreateBid(ctx context.Context, bid entity.Bid) error
	UpdateBidAmount(ctx context.Context, auctionID uint64, bidder common.Address, amount decimal.Decimal) error
	MarkBidClaimed(ctx context.Context, auctionID uint64, bidder common.Address) error
	GetBid(ctx context.Context, auctionID uint64, bidder common.Address) (*entity.Bid, error)
	GetBidsByAuction(ctx context.Context, auctionID uint64, cursor, size uint64) ([]entity.Bid, error)
	CountBidsByAuction(ctx context.Context, auctionID uint64) (uint64, error)
	GetBidsByBidder(ctx context.Context, bidder common.Address, cursor, size uint64) ([]entity.Bid, error)
	CountBidsByBidder(ctx context.Context, bidder common.Address) (uint64, error)

	// AddBidder registers an account in the global distinct-bidder registry.
	// It reports whether the account was newly added.
	AddBidder(ctx context.Context, account common.Address) (bool, error)
	GetBidders(ctx context.Context, cursor, size uint64) ([]common.Address, error)
	CountBidders(ctx context.Context) (uint64, error)

	// AddWhitelist reports whether the account was newly added; adding a
	// present account is a no-op.
	AddWhitelist(ctx context.Context, account common.Address) (bool, error)
	// RemoveWhitelist reports whether the account was present. Removal is
	// swap-with-last: enumeration order after a removal is consistent but
	// not stable.
	RemoveWhitelist(ctx context.Context, account common.Address) (bool, error)
	IsWhitelisted(ctx context.Context, account common.Address) (bool, error)
	GetWhitelist(ctx context.Context, cursor, size uint64) ([]common.Address, error)
	CountWhitelist(ctx context.Context) (uint64, error)

	AddEvent(ctx context.Context, event entity.Event) error
	GetEventsByAuction(ctx context.Context, auctionID uint64, cursor, size uint64) ([]entity.Event, error)
}

type AuctionDataGatewayWithTx interface {
	AuctionDataGateway
	Tx
}
