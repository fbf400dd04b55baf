package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type mutateWhitelistRequest struct {
	Caller   string   `json:"caller"`
	Accounts []string `json:"accounts"`
}

type mutateWhitelistResult struct {
	Changed uint64 `json:"changed"`
}

type mutateWhitelistResponse = HttpResponse[mutateWhitelistResult]

func (h *HttpHandler) AddWhitelist(ctx *fiber.Ctx) (err error) {
	return h.mutateWhitelist(ctx, true)
}

func (h *HttpHandler) RemoveWhitelist(ctx *fiber.Ctx) (err error) {
	return h.mutateWhitelist(ctx, false)
}

func (h *HttpHandler) mutateWhitelist(ctx *fiber.Ctx, add bool) error {
	var req mutateWhitelistRequest
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

	var changed uint64
	if add {
		changed, err = h.engine.AddWhitelist(ctx.UserContext(), caller, accounts)
	} else {
		changed, err = h.engine.RemoveWhitelist(ctx.UserContext(), caller, accounts)
	}
	if err != nil {
		return errors.Wrap(err, "error during whitelist mutation")
	}

	resp := mutateWhitelistResponse{Result: &mutateWhitelistResult{Changed: changed}}
	return errors.WithStack(ctx.JSON(resp))
}
