package httphandler

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Engine is the auction settlement engine surface the HTTP API exposes.
type Engine interface {
	StartAuction(ctx context.Context, caller common.Address, startBlock, endBlock uint64, initialBidAmount decimal.Decimal, leaderboardSize uint32) (uint64, error)
	CloseAuction(ctx context.Context, caller common.Address, clearingAmount decimal.Decimal) (uint64, error)
	SetMaxAuctionLength(ctx context.Context, caller common.Address, value uint64) error
	SetOperatorAddress(ctx context.Context, caller, newOperator common.Address) error

	AddWhitelist(ctx context.Context, caller common.Address, accounts []common.Address) (uint64, error)
	RemoveWhitelist(ctx context.Context, caller common.Address, accounts []common.Address) (uint64, error)
	Whitelisted(ctx context.Context, account common.Address) (bool, error)

	PlaceBid(ctx context.Context, caller common.Address, amount decimal.Decimal) error
	Claimable(ctx context.Context, auctionID uint64, account common.Address) (bool, error)
	ClaimAuction(ctx context.Context, caller common.Address, auctionID uint64) (decimal.Decimal, error)
	ClaimAuctionLeaderboard(ctx context.Context, caller common.Address, auctionID uint64, accounts []common.Address) (decimal.Decimal, error)
	RecoverToken(ctx context.Context, caller, token common.Address, amount decimal.Decimal) error
	TotalCollected(ctx context.Context) (decimal.Decimal, error)

	ViewAuctions(ctx context.Context, cursor, size uint64) ([]entity.Auction, uint64, error)
	ViewBidders(ctx context.Context, cursor, size uint64) ([]common.Address, uint64, error)
	ViewBidsPerAuction(ctx context.Context, auctionID, cursor, size uint64) ([]entity.Bid, uint64, error)
	ViewBidderAuctions(ctx context.Context, account common.Address, cursor, size uint64) ([]entity.Bid, uint64, error)
	ViewWhitelist(ctx context.Context, cursor, size uint64) ([]common.Address, uint64, error)
	ViewAuctionEvents(ctx context.Context, auctionID, cursor, size uint64) ([]entity.Event, error)
}

type HttpHandler struct {
	engine Engine
}

func New(engine Engine) *HttpHandler {
	return &HttpHandler{
		engine: engine,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

type paginationRequest struct {
	Cursor uint64 `query:"cursor" json:"cursor"`
	Size   uint64 `query:"size" json:"size"`
}

func (req paginationRequest) Validate() error {
	var errList []error
	if req.Size > maxPageSize {
		errList = append(errList, errors.Errorf("size must be less than or equal to %d", maxPageSize))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (req *paginationRequest) ParseDefault() error {
	if req.Size == 0 {
		req.Size = defaultPageSize
	}
	return nil
}

func parseAddress(raw, field string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, errs.NewPublicError("invalid " + field + " address")
	}
	return common.HexToAddress(raw), nil
}

func parseAddresses(raw []string, field string) ([]common.Address, error) {
	accounts := make([]common.Address, 0, len(raw))
	for _, r := range raw {
		account, err := parseAddress(r, field)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
