package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/auction/v1")

	r.Get("/auctions", h.GetAuctions)
	r.Get("/auctions/:auctionId/bids", h.GetAuctionBids)
	r.Get("/auctions/:auctionId/events", h.GetAuctionEvents)
	r.Get("/bidders", h.GetBidders)
	r.Get("/bidders/:account/bids", h.GetBidderAuctions)
	r.Get("/whitelist", h.GetWhitelist)
	r.Get("/whitelist/:account", h.GetWhitelisted)
	r.Get("/claimable", h.GetClaimable)
	r.Get("/total-collected", h.GetTotalCollected)

	r.Post("/bids", h.PlaceBid)
	r.Post("/claims", h.ClaimAuction)
	r.Post("/leaderboard-claims", h.ClaimAuctionLeaderboard)
	r.Post("/auctions", h.StartAuction)
	r.Post("/auctions/close", h.CloseAuction)
	r.Post("/whitelist/add", h.AddWhitelist)
	r.Post("/whitelist/remove", h.RemoveWhitelist)
	r.Post("/params/max-auction-length", h.SetMaxAuctionLength)
	r.Post("/params/operator", h.SetOperatorAddress)
	r.Post("/recover-token", h.RecoverToken)

	return nil
}
