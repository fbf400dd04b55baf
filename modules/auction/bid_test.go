package auction

import (
	"context"
	"testing"

	"github.com/dexauction/auction-engine/modules/auction/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPlaceBidWindow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	amount := decimal.NewFromInt(100)

	err := env.engine.PlaceBid(ctx, bidderA, amount)
	requirePublicError(t, err, "Not whitelisted")

	env.whitelist(t, bidderA)
	env.fund(t, bidderA, 10_000)

	// no auction yet
	err = env.engine.PlaceBid(ctx, bidderA, amount)
	requirePublicError(t, err, "Too early")

	_, err = env.engine.StartAuction(ctx, testOperator, 110, 210, amount, 3)
	require.NoError(t, err)

	// pending, before start block
	err = env.engine.PlaceBid(ctx, bidderA, amount)
	requirePublicError(t, err, "Too early")

	env.clock.Set(110)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, amount))

	// past end block
	env.clock.Set(211)
	err = env.engine.PlaceBid(ctx, bidderA, amount)
	requirePublicError(t, err, "Too late")

	_, err = env.engine.CloseAuction(ctx, testOperator, decimal.NewFromInt(1000))
	require.NoError(t, err)
	err = env.engine.PlaceBid(ctx, bidderA, amount)
	requirePublicError(t, err, "Too late")
}

func TestPlaceBidGranularity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA) // initialBidAmount 100
	env.fund(t, bidderA, 10_000)

	// first deposit must be a multiple of the initial bid amount
	err := env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(150))
	requirePublicError(t, err, "Incorrect initial bid amount")
	err = env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(50))
	requirePublicError(t, err, "Incorrect initial bid amount")
	err = env.engine.PlaceBid(ctx, bidderA, decimal.Zero)
	requirePublicError(t, err, "Incorrect initial bid amount")

	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(1000)))

	// subsequent deposits move in sub-units of 10
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(50)))

	err = env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(99))
	requirePublicError(t, err, "Incorrect amount")
	err = env.engine.PlaceBid(ctx, bidderA, decimal.NewFromFloat(0.5))
	requirePublicError(t, err, "Incorrect amount")

	bids, _, err := env.engine.ViewBidsPerAuction(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.True(t, bids[0].Amount.Equal(decimal.NewFromInt(1050)), "cumulative amount is %s", bids[0].Amount)
	require.False(t, bids[0].HasClaimed)
}

func TestPlaceBidCustomSubUnitDivisor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnvWith(t, func(cfg *config.Config) { cfg.SubUnitDivisor = 4 })
	env.openAuction(t, bidderA) // initialBidAmount 100, sub-unit 25
	env.fund(t, bidderA, 10_000)

	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(100)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(25)))

	// 10 is a valid sub-unit under the default divisor, not under 4
	err := env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(10))
	requirePublicError(t, err, "Incorrect amount")

	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(50)))

	bids, _, err := env.engine.ViewBidsPerAuction(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.True(t, bids[0].Amount.Equal(decimal.NewFromInt(175)))
}

func TestPlaceBidMovesTokensToEscrow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA, bidderB)
	env.fund(t, bidderA, 1000)
	env.fund(t, bidderB, 500)

	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(700)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderB, decimal.NewFromInt(500)))

	require.True(t, env.balance(t, testBidToken, testEscrow).Equal(decimal.NewFromInt(1200)))
	require.True(t, env.balance(t, testBidToken, bidderA).Equal(decimal.NewFromInt(300)))
	require.True(t, env.balance(t, testBidToken, bidderB).Equal(decimal.Zero))
}

func TestPlaceBidFailedPullLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA)
	// no funding: the escrow pull must fail

	err := env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(100))
	require.Error(t, err)

	bids, _, err := env.engine.ViewBidsPerAuction(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Empty(t, bids)

	bidders, _, err := env.engine.ViewBidders(ctx, 0, 10)
	require.NoError(t, err)
	require.Empty(t, bidders)
}

func TestBidEntryOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA, bidderB, bidderC)
	for _, bidder := range []struct {
		account common.Address
		amount  int64
	}{{bidderB, 300}, {bidderA, 100}, {bidderC, 200}} {
		env.fund(t, bidder.account, bidder.amount)
		require.NoError(t, env.engine.PlaceBid(ctx, bidder.account, decimal.NewFromInt(bidder.amount)))
	}

	bids, _, err := env.engine.ViewBidsPerAuction(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.Equal(t, bidderB, bids[0].Bidder)
	require.Equal(t, bidderA, bids[1].Bidder)
	require.Equal(t, bidderC, bids[2].Bidder)
	for i, bid := range bids {
		require.Equal(t, uint64(i), bid.EntryIndex)
	}
}
