package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type startAuctionRequest struct {
	Caller           string          `json:"caller"`
	StartBlock       uint64          `json:"startBlock"`
	EndBlock         uint64          `json:"endBlock"`
	InitialBidAmount decimal.Decimal `json:"initialBidAmount"`
	LeaderboardSize  uint32          `json:"leaderboardSize"`
}

type startAuctionResult struct {
	AuctionID uint64 `json:"auctionId"`
}

type startAuctionResponse = HttpResponse[startAuctionResult]

func (h *HttpHandler) StartAuction(ctx *fiber.Ctx) (err error) {
	var req startAuctionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}

	auctionID, err := h.engine.StartAuction(ctx.UserContext(), caller, req.StartBlock, req.EndBlock, req.InitialBidAmount, req.LeaderboardSize)
	if err != nil {
		return errors.Wrap(err, "error during StartAuction")
	}

	resp := startAuctionResponse{Result: &startAuctionResult{AuctionID: auctionID}}
	return errors.WithStack(ctx.JSON(resp))
}

type closeAuctionRequest struct {
	Caller         string          `json:"caller"`
	ClearingAmount decimal.Decimal `json:"clearingAmount"`
}

type closeAuctionResult struct {
	BidderCount uint64 `json:"bidderCount"`
}

type closeAuctionResponse = HttpResponse[closeAuctionResult]

func (h *HttpHandler) CloseAuction(ctx *fiber.Ctx) (err error) {
	var req closeAuctionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}

	bidderCount, err := h.engine.CloseAuction(ctx.UserContext(), caller, req.ClearingAmount)
	if err != nil {
		return errors.Wrap(err, "error during CloseAuction")
	}

	resp := closeAuctionResponse{Result: &closeAuctionResult{BidderCount: bidderCount}}
	return errors.WithStack(ctx.JSON(resp))
}
