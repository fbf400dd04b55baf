package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type bidResult struct {
	AuctionID  uint64          `json:"auctionId"`
	Bidder     string          `json:"bidder"`
	Amount     decimal.Decimal `json:"amount"`
	HasClaimed bool            `json:"hasClaimed"`
	EntryIndex uint64          `json:"entryIndex"`
}

func toBidResults(bids []entity.Bid) []bidResult {
	return lo.Map(bids, func(b entity.Bid, _ int) bidResult {
		return bidResult{
			AuctionID:  b.AuctionID,
			Bidder:     b.Bidder.Hex(),
			Amount:     b.Amount,
			HasClaimed: b.HasClaimed,
			EntryIndex: b.EntryIndex,
		}
	})
}

type getBidsResult struct {
	List       []bidResult `json:"list"`
	NextCursor uint64      `json:"nextCursor"`
}

type getBidsResponse = HttpResponse[getBidsResult]

func (h *HttpHandler) GetAuctionBids(ctx *fiber.Ctx) (err error) {
	auctionID, err := ctx.ParamsInt("auctionId")
	if err != nil || auctionID <= 0 {
		return errs.NewPublicError("invalid auction id")
	}
	var req paginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	bids, next, err := h.engine.ViewBidsPerAuction(ctx.UserContext(), uint64(auctionID), req.Cursor, req.Size)
	if err != nil {
		return errors.Wrap(err, "error during ViewBidsPerAuction")
	}

	resp := getBidsResponse{
		Result: &getBidsResult{List: toBidResults(bids), NextCursor: next},
	}
	return errors.WithStack(ctx.JSON(resp))
}

func (h *HttpHandler) GetBidderAuctions(ctx *fiber.Ctx) (err error) {
	account, err := parseAddress(ctx.Params("account"), "account")
	if err != nil {
		return errors.WithStack(err)
	}
	var req paginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	bids, next, err := h.engine.ViewBidderAuctions(ctx.UserContext(), account, req.Cursor, req.Size)
	if err != nil {
		return errors.Wrap(err, "error during ViewBidderAuctions")
	}

	resp := getBidsResponse{
		Result: &getBidsResult{List: toBidResults(bids), NextCursor: next},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getBiddersResult struct {
	List       []string `json:"list"`
	NextCursor uint64   `json:"nextCursor"`
}

type getBiddersResponse = HttpResponse[getBiddersResult]

func (h *HttpHandler) GetBidders(ctx *fiber.Ctx) (err error) {
	var req paginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	bidders, next, err := h.engine.ViewBidders(ctx.UserContext(), req.Cursor, req.Size)
	if err != nil {
		return errors.Wrap(err, "error during ViewBidders")
	}

	resp := getBiddersResponse{
		Result: &getBiddersResult{
			List:       lo.Map(bidders, func(a common.Address, _ int) string { return a.Hex() }),
			NextCursor: next,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
