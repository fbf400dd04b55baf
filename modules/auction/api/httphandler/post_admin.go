package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type setMaxAuctionLengthRequest struct {
	Caller string `json:"caller"`
	Value  uint64 `json:"value"`
}

type ackResult struct {
	Applied bool `json:"applied"`
}

type ackResponse = HttpResponse[ackResult]

func (h *HttpHandler) SetMaxAuctionLength(ctx *fiber.Ctx) (err error) {
	var req setMaxAuctionLengthRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.engine.SetMaxAuctionLength(ctx.UserContext(), caller, req.Value); err != nil {
		return errors.Wrap(err, "error during SetMaxAuctionLength")
	}

	resp := ackResponse{Result: &ackResult{Applied: true}}
	return errors.WithStack(ctx.JSON(resp))
}

type setOperatorRequest struct {
	Caller   string `json:"caller"`
	Operator string `json:"operator"`
}

func (h *HttpHandler) SetOperatorAddress(ctx *fiber.Ctx) (err error) {
	var req setOperatorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}
	operator, err := parseAddress(req.Operator, "operator")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.engine.SetOperatorAddress(ctx.UserContext(), caller, operator); err != nil {
		return errors.Wrap(err, "error during SetOperatorAddress")
	}

	resp := ackResponse{Result: &ackResult{Applied: true}}
	return errors.WithStack(ctx.JSON(resp))
}

type recoverTokenRequest struct {
	Caller string          `json:"caller"`
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *HttpHandler) RecoverToken(ctx *fiber.Ctx) (err error) {
	var req recoverTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		return errors.WithStack(err)
	}
	token, err := parseAddress(req.Token, "token")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.engine.RecoverToken(ctx.UserContext(), caller, token, req.Amount); err != nil {
		return errors.Wrap(err, "error during RecoverToken")
	}

	resp := ackResponse{Result: &ackResult{Applied: true}}
	return errors.WithStack(ctx.JSON(resp))
}
