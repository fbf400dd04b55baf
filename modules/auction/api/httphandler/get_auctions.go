package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type getAuctionsRequest struct {
	paginationRequest
}

type auctionResult struct {
	ID                   uint64          `json:"id"`
	Status               string          `json:"status"`
	StartBlock           uint64          `json:"startBlock"`
	EndBlock             uint64          `json:"endBlock"`
	InitialBidAmount     decimal.Decimal `json:"initialBidAmount"`
	LeaderboardSize      uint32          `json:"leaderboardSize"`
	LeaderboardThreshold decimal.Decimal `json:"leaderboardThreshold"`
}

type getAuctionsResult struct {
	List       []auctionResult `json:"list"`
	NextCursor uint64          `json:"nextCursor"`
}

type getAuctionsResponse = HttpResponse[getAuctionsResult]

func (h *HttpHandler) GetAuctions(ctx *fiber.Ctx) (err error) {
	var req getAuctionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	auctions, next, err := h.engine.ViewAuctions(ctx.UserContext(), req.Cursor, req.Size)
	if err != nil {
		return errors.Wrap(err, "error during ViewAuctions")
	}

	resp := getAuctionsResponse{
		Result: &getAuctionsResult{
			List: lo.Map(auctions, func(a entity.Auction, _ int) auctionResult {
				return auctionResult{
					ID:                   a.ID,
					Status:               string(a.Status),
					StartBlock:           a.StartBlock,
					EndBlock:             a.EndBlock,
					InitialBidAmount:     a.InitialBidAmount,
					LeaderboardSize:      a.LeaderboardSize,
					LeaderboardThreshold: a.LeaderboardThreshold,
				}
			}),
			NextCursor: next,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
