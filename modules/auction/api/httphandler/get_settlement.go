package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type getClaimableRequest struct {
	AuctionID uint64 `query:"auctionId"`
	Account   string `query:"account"`
}

type getClaimableResult struct {
	Claimable bool `json:"claimable"`
}

type getClaimableResponse = HttpResponse[getClaimableResult]

func (h *HttpHandler) GetClaimable(ctx *fiber.Ctx) (err error) {
	var req getClaimableRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.AuctionID == 0 {
		return errs.NewPublicError("invalid auction id")
	}
	account, err := parseAddress(req.Account, "account")
	if err != nil {
		return errors.WithStack(err)
	}

	claimable, err := h.engine.Claimable(ctx.UserContext(), req.AuctionID, account)
	if err != nil {
		return errors.Wrap(err, "error during Claimable")
	}

	resp := getClaimableResponse{Result: &getClaimableResult{Claimable: claimable}}
	return errors.WithStack(ctx.JSON(resp))
}

type getTotalCollectedResult struct {
	TotalCollected decimal.Decimal `json:"totalCollected"`
}

type getTotalCollectedResponse = HttpResponse[getTotalCollectedResult]

func (h *HttpHandler) GetTotalCollected(ctx *fiber.Ctx) (err error) {
	total, err := h.engine.TotalCollected(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during TotalCollected")
	}

	resp := getTotalCollectedResponse{Result: &getTotalCollectedResult{TotalCollected: total}}
	return errors.WithStack(ctx.JSON(resp))
}

type eventResult struct {
	ID        uint64          `json:"id"`
	Kind      string          `json:"kind"`
	AuctionID uint64          `json:"auctionId"`
	Account   string          `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type getEventsResult struct {
	List []eventResult `json:"list"`
}

type getEventsResponse = HttpResponse[getEventsResult]

func (h *HttpHandler) GetAuctionEvents(ctx *fiber.Ctx) (err error) {
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

	events, err := h.engine.ViewAuctionEvents(ctx.UserContext(), uint64(auctionID), req.Cursor, req.Size)
	if err != nil {
		return errors.Wrap(err, "error during ViewAuctionEvents")
	}

	resp := getEventsResponse{
		Result: &getEventsResult{
			List: lo.Map(events, func(e entity.Event, _ int) eventResult {
				return eventResult{
					ID:        e.ID,
					Kind:      string(e.Kind),
					AuctionID: e.AuctionID,
					Account:   e.Account.Hex(),
					Amount:    e.Amount,
					Metadata:  e.Metadata,
					CreatedAt: e.CreatedAt,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
