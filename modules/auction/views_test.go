package auction

import (
	"context"
	"math/big"
	"testing"

	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestViewWhitelistPagination(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	accounts := make([]common.Address, 5)
	for i := range accounts {
		accounts[i] = common.BigToAddress(big.NewInt(int64(0x4000 + i)))
	}
	env.whitelist(t, accounts...)

	var collected []common.Address
	cursor := uint64(0)
	for {
		page, next, err := env.engine.ViewWhitelist(ctx, cursor, 2)
		require.NoError(t, err)
		collected = append(collected, page...)
		if next == 0 {
			break
		}
		require.Equal(t, cursor+2, next)
		cursor = next
	}
	require.Equal(t, accounts, collected)

	// cursor beyond the collection yields an empty terminal page
	page, next, err := env.engine.ViewWhitelist(ctx, 50, 2)
	require.NoError(t, err)
	require.Empty(t, page)
	require.Zero(t, next)
}

func TestViewBiddersDistinctAcrossAuctions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.openAuction(t, bidderA, bidderB)
	env.fund(t, bidderA, 1000)
	env.fund(t, bidderB, 1000)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderB, decimal.NewFromInt(100)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(100)))
	env.closeAuction(t, 1000)

	env.openAuction(t, bidderA)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(100)))
	env.closeAuction(t, 1000)

	// first-deposit order, each account once
	bidders, next, err := env.engine.ViewBidders(ctx, 0, 10)
	require.NoError(t, err)
	require.Zero(t, next)
	require.Equal(t, []common.Address{bidderB, bidderA}, bidders)
}

func TestViewBidderAuctions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		env.openAuction(t, bidderA)
		env.fund(t, bidderA, 200)
		require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(200)))
		env.closeAuction(t, 1000)
	}

	bids, next, err := env.engine.ViewBidderAuctions(ctx, bidderA, 0, 10)
	require.NoError(t, err)
	require.Zero(t, next)
	require.Len(t, bids, 2)
	require.Equal(t, uint64(1), bids[0].AuctionID)
	require.Equal(t, uint64(2), bids[1].AuctionID)
	for _, bid := range bids {
		require.Equal(t, bidderA, bid.Bidder)
		require.True(t, bid.Amount.Equal(decimal.NewFromInt(200)))
	}

	none, next, err := env.engine.ViewBidderAuctions(ctx, bidderC, 0, 10)
	require.NoError(t, err)
	require.Empty(t, none)
	require.Zero(t, next)
}

func TestViewAuctionEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.openAuction(t, bidderA, bidderB)
	env.fund(t, bidderA, 1000)
	env.fund(t, bidderB, 100)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(1000)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderB, decimal.NewFromInt(100)))
	env.closeAuction(t, 1000)

	_, err := env.engine.ClaimAuction(ctx, bidderB, 1)
	require.NoError(t, err)
	_, err = env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA})
	require.NoError(t, err)

	events, err := env.engine.ViewAuctionEvents(ctx, 1, 0, 100)
	require.NoError(t, err)

	kinds := make([]entity.EventKind, len(events))
	for i, event := range events {
		kinds[i] = event.Kind
	}
	require.Equal(t, []entity.EventKind{
		entity.EventAuctionStarted,
		entity.EventBidDeposited,
		entity.EventBidDeposited,
		entity.EventAuctionClosed,
		entity.EventClaimSettled,
		entity.EventClaimSettled,
	}, kinds)

	require.Equal(t, entity.ClaimInitiatorSelf, events[4].Metadata["initiator"])
	require.Equal(t, bidderB, events[4].Account)
	require.Equal(t, entity.ClaimInitiatorAdministrator, events[5].Metadata["initiator"])
	require.Equal(t, bidderA, events[5].Account)
}
