package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getWhitelistResult struct {
	List       []string `json:"list"`
	NextCursor uint64   `json:"nextCursor"`
}

type getWhitelistResponse = HttpResponse[getWhitelistResult]

func (h *HttpHandler) GetWhitelist(ctx *fiber.Ctx) (err error) {
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

	accounts, next, err := h.engine.ViewWhitelist(ctx.UserContext(), req.Cursor, req.Size)
	if err != nil {
		return errors.Wrap(err, "error during ViewWhitelist")
	}

	resp := getWhitelistResponse{
		Result: &getWhitelistResult{
			List:       lo.Map(accounts, func(a common.Address, _ int) string { return a.Hex() }),
			NextCursor: next,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getWhitelistedResult struct {
	Account     string `json:"account"`
	Whitelisted bool   `json:"whitelisted"`
}

type getWhitelistedResponse = HttpResponse[getWhitelistedResult]

func (h *HttpHandler) GetWhitelisted(ctx *fiber.Ctx) (err error) {
	account, err := parseAddress(ctx.Params("account"), "account")
	if err != nil {
		return errors.WithStack(err)
	}

	whitelisted, err := h.engine.Whitelisted(ctx.UserContext(), account)
	if err != nil {
		return errors.Wrap(err, "error during Whitelisted")
	}

	resp := getWhitelistedResponse{
		Result: &getWhitelistedResult{Account: account.Hex(), Whitelisted: whitelisted},
	}
	return errors.WithStack(ctx.JSON(resp))
}
