package auction

import (
	"context"
	"testing"

	"github.com/dexauction/auction-engine/modules/auction/config"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStartAuctionValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	initial := decimal.NewFromInt(100)

	_, err := env.engine.StartAuction(ctx, bidderA, 110, 210, initial, 3)
	requirePublicError(t, err, "Caller is not the operator")

	_, err = env.engine.StartAuction(ctx, testOperator, 110, 210, initial, 3)
	requirePublicError(t, err, "No whitelisted address")

	env.whitelist(t, bidderA)

	// clock sits at block 100
	_, err = env.engine.StartAuction(ctx, testOperator, 100, 210, initial, 3)
	requirePublicError(t, err, "Start block must be after current block")

	_, err = env.engine.StartAuction(ctx, testOperator, 210, 110, initial, 3)
	requirePublicError(t, err, "Start block must be before end block")

	_, err = env.engine.StartAuction(ctx, testOperator, 110, 110+1001, initial, 3)
	requirePublicError(t, err, "Auction length cannot exceed maximum")

	_, err = env.engine.StartAuction(ctx, testOperator, 100+144_001, 100+144_002, initial, 3)
	requirePublicError(t, err, "Start block too far in the future")

	_, err = env.engine.StartAuction(ctx, testOperator, 110, 210, decimal.Zero, 3)
	requirePublicError(t, err, "Initial bid amount cannot be zero")

	_, err = env.engine.StartAuction(ctx, testOperator, 110, 210, initial, 0)
	requirePublicError(t, err, "Leaderboard size cannot be zero")

	id, err := env.engine.StartAuction(ctx, testOperator, 110, 210, initial, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	// only one unclosed auction at a time
	_, err = env.engine.StartAuction(ctx, testOperator, 300, 400, initial, 3)
	requirePublicError(t, err, "In progress")
}

func TestStartAuctionSchedulingBuffer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnvWith(t, func(cfg *config.Config) { cfg.SchedulingBuffer = 50 })
	env.whitelist(t, bidderA)
	initial := decimal.NewFromInt(100)

	// clock sits at block 100; the window fits the max length but not the buffer
	_, err := env.engine.StartAuction(ctx, testOperator, 110, 210, initial, 3)
	requirePublicError(t, err, "End block too far in the future")

	_, err = env.engine.StartAuction(ctx, testOperator, 151, 161, initial, 3)
	requirePublicError(t, err, "Start block too far in the future")

	id, err := env.engine.StartAuction(ctx, testOperator, 150, 200, initial, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
}

func TestStartAuctionSequentialIDs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for want := uint64(1); want <= 3; want++ {
		id := env.openAuction(t, bidderA)
		require.Equal(t, want, id)
		env.closeAuction(t, 1)
	}

	auctions, next, err := env.engine.ViewAuctions(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, auctions, 3)
	require.Zero(t, next)
	for i, auction := range auctions {
		require.Equal(t, uint64(i+1), auction.ID)
		require.Equal(t, entity.AuctionStatusClosed, auction.Status)
	}
}

func TestCloseAuction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.CloseAuction(ctx, testOperator, decimal.NewFromInt(1000))
	requirePublicError(t, err, "Not in progress")

	env.openAuction(t, bidderA, bidderB)
	env.fund(t, bidderA, 1000)
	env.fund(t, bidderB, 1000)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(500)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderB, decimal.NewFromInt(100)))

	_, err = env.engine.CloseAuction(ctx, bidderA, decimal.NewFromInt(1000))
	requirePublicError(t, err, "Caller is not the operator")

	// still inside the window
	_, err = env.engine.CloseAuction(ctx, testOperator, decimal.NewFromInt(1000))
	requirePublicError(t, err, "In progress")

	count := env.closeAuction(t, 1000)
	require.Equal(t, uint64(2), count)

	auctions, _, err := env.engine.ViewAuctions(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, entity.AuctionStatusClosed, auctions[0].Status)
	require.True(t, auctions[0].LeaderboardThreshold.Equal(decimal.NewFromInt(1000)))

	// closed is terminal
	_, err = env.engine.CloseAuction(ctx, testOperator, decimal.NewFromInt(1000))
	requirePublicError(t, err, "Not in progress")
}

func TestCloseAuctionZeroBidders(t *testing.T) {
	env := newTestEnv(t)
	env.openAuction(t, bidderA)

	count := env.closeAuction(t, 500)
	require.Zero(t, count)
}

func TestLazyOpenTransition(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.whitelist(t, bidderA)

	_, err := env.engine.StartAuction(ctx, testOperator, 110, 210, decimal.NewFromInt(100), 3)
	require.NoError(t, err)

	auctions, _, err := env.engine.ViewAuctions(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, entity.AuctionStatusPending, auctions[0].Status)

	env.clock.Set(110)
	auctions, _, err = env.engine.ViewAuctions(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, entity.AuctionStatusOpen, auctions[0].Status)
}

func TestSetMaxAuctionLength(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	err := env.engine.SetMaxAuctionLength(ctx, bidderA, 500)
	requirePublicError(t, err, "Caller is not the operator")

	err = env.engine.SetMaxAuctionLength(ctx, testOperator, 0)
	requirePublicError(t, err, "Length cannot be zero")

	err = env.engine.SetMaxAuctionLength(ctx, testOperator, MaxAuctionLengthCeiling+1)
	requirePublicError(t, err, "Length cannot exceed 5-day bound")

	require.NoError(t, env.engine.SetMaxAuctionLength(ctx, testOperator, 50))

	// window longer than the new maximum is rejected
	env.whitelist(t, bidderA)
	_, err = env.engine.StartAuction(ctx, testOperator, 110, 210, decimal.NewFromInt(100), 3)
	requirePublicError(t, err, "Auction length cannot exceed maximum")

	id, err := env.engine.StartAuction(ctx, testOperator, 110, 150, decimal.NewFromInt(100), 3)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	// forbidden while an auction is unclosed
	err = env.engine.SetMaxAuctionLength(ctx, testOperator, 100)
	requirePublicError(t, err, "In progress")
}

func TestSetOperatorAddress(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	newOperator := bidderC

	err := env.engine.SetOperatorAddress(ctx, testOperator, newOperator)
	requirePublicError(t, err, "Caller is not the administrator")

	err = env.engine.SetOperatorAddress(ctx, testAdmin, testAdmin)
	requirePublicError(t, err, "Operator cannot be the administrator")

	require.NoError(t, env.engine.SetOperatorAddress(ctx, testAdmin, newOperator))

	// old operator loses the role, new one gains it
	_, err = env.engine.AddWhitelist(ctx, testOperator, []common.Address{bidderA})
	requirePublicError(t, err, "Caller is not the operator")
	_, err = env.engine.AddWhitelist(ctx, newOperator, []common.Address{bidderA})
	require.NoError(t, err)
}
