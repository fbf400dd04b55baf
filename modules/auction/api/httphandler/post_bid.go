package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type placeBidRequest struct {
	Caller string          `json:"caller"`
	Amount decimal.Decimal `json:"amount"`
}

type placeBidResult struct {
	Accepted bool `json:"accepted"`
}

type placeBidResponse = HttpResponse[placeBidResult]

func (h *HttpHandler) PlaceBid(ctx *fiber.Ctx) (err error) {
	var req placeBidRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.engine.PlaceBid(ctx.UserContext(), caller, req.Amount); err != nil {
		return errors.Wrap(err, "error during PlaceBid")
	}

	resp := placeBidResponse{Result: &placeBidResult{Accepted: true}}
	return errors.WithStack(ctx.JSON(resp))
}
