package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type claimAuctionRequest struct {
	Caller    string `json:"caller"`
	AuctionID uint64 `json:"auctionId"`
}

type claimAuctionResult struct {
	Refunded decimal.Decimal `json:"refunded"`
}

type claimAuctionResponse = HttpResponse[claimAuctionResult]

func (h *HttpHandler) ClaimAuction(ctx *fiber.Ctx) (err error) {
	var req claimAuctionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}

	refunded, err := h.engine.ClaimAuction(ctx.UserContext(), caller, req.AuctionID)
	if err != nil {
		return errors.Wrap(err, "error during ClaimAuction")
	}

	resp := claimAuctionResponse{Result: &claimAuctionResult{Refunded: refunded}}
	return errors.WithStack(ctx.JSON(resp))
}

type claimLeaderboardRequest struct {
	Caller    string   `json:"caller"`
	AuctionID uint64   `json:"auctionId"`
	Accounts  []string `json:"accounts"`
}

type claimLeaderboardResult struct {
	Collected decimal.Decimal `json:"collected"`
}

type claimLeaderboardResponse = HttpResponse[claimLeaderboardResult]

func (h *HttpHandler) ClaimAuctionLeaderboard(ctx *fiber.Ctx) (err error) {
	var req claimLeaderboardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}
	accounts, err := parseAddresses(req.Accounts, "account")
	if err != nil {
		return errors.WithStack(err)
	}

	collected, err := h.engine.ClaimAuctionLeaderboard(ctx.UserContext(), caller, req.AuctionID, accounts)
	if err != nil {
		return errors.Wrap(err, "error during ClaimAuctionLeaderboard")
	}

	resp := claimLeaderboardResponse{Result: &claimLeaderboardResult{Collected: collected}}
	return errors.WithStack(ctx.JSON(resp))
}
