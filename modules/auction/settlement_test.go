package auction

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// settle prepares the canonical settlement fixture: bidder A holds 1050,
// bidder B holds 100, the auction is closed with a clearing amount of 1050
// so A is in the leaderboard and B is refundable.
func settle(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA, bidderB)
	env.fund(t, bidderA, 1050)
	env.fund(t, bidderB, 100)

	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(1000)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(50)))
	require.NoError(t, env.engine.PlaceBid(ctx, bidderB, decimal.NewFromInt(100)))

	count := env.closeAuction(t, 1050)
	require.Equal(t, uint64(2), count)
	return env
}

func TestClaimable(t *testing.T) {
	ctx := context.Background()
	env := settle(t)

	claimable, err := env.engine.Claimable(ctx, 1, bidderA)
	require.NoError(t, err)
	require.False(t, claimable, "leaderboard winner is never self-claimable")

	claimable, err = env.engine.Claimable(ctx, 1, bidderB)
	require.NoError(t, err)
	require.True(t, claimable)

	// no entry
	claimable, err = env.engine.Claimable(ctx, 1, bidderC)
	require.NoError(t, err)
	require.False(t, claimable)

	// unknown auction
	claimable, err = env.engine.Claimable(ctx, 99, bidderB)
	require.NoError(t, err)
	require.False(t, claimable)
}

func TestClaimableBeforeClose(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA)
	env.fund(t, bidderA, 100)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(100)))

	claimable, err := env.engine.Claimable(ctx, 1, bidderA)
	require.NoError(t, err)
	require.False(t, claimable)
}

func TestClaimAuction(t *testing.T) {
	ctx := context.Background()
	env := settle(t)

	_, err := env.engine.ClaimAuction(ctx, bidderC, 1)
	requirePublicError(t, err, "Not found")

	_, err = env.engine.ClaimAuction(ctx, bidderB, 99)
	requirePublicError(t, err, "Not found")

	_, err = env.engine.ClaimAuction(ctx, bidderA, 1)
	requirePublicError(t, err, "Cannot be claimed (in leaderboard)")

	refunded, err := env.engine.ClaimAuction(ctx, bidderB, 1)
	require.NoError(t, err)
	require.True(t, refunded.Equal(decimal.NewFromInt(100)))
	require.True(t, env.balance(t, testBidToken, bidderB).Equal(decimal.NewFromInt(100)))

	// exactly once
	_, err = env.engine.ClaimAuction(ctx, bidderB, 1)
	requirePublicError(t, err, "Cannot be claimed twice")

	claimable, err := env.engine.Claimable(ctx, 1, bidderB)
	require.NoError(t, err)
	require.False(t, claimable)
}

func TestClaimAuctionBeforeClose(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA)
	env.fund(t, bidderA, 100)
	require.NoError(t, env.engine.PlaceBid(ctx, bidderA, decimal.NewFromInt(100)))

	_, err := env.engine.ClaimAuction(ctx, bidderA, 1)
	requirePublicError(t, err, "In progress")
}

func TestClaimAuctionLeaderboard(t *testing.T) {
	ctx := context.Background()
	env := settle(t)

	_, err := env.engine.ClaimAuctionLeaderboard(ctx, bidderA, 1, []common.Address{bidderA})
	requirePublicError(t, err, "Caller is not the administrator")

	_, err = env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 99, []common.Address{bidderA})
	requirePublicError(t, err, "Not found")

	// below threshold
	_, err = env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderB})
	requirePublicError(t, err, "Cannot be claimed (not in leaderboard)")

	// no entry at all
	_, err = env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderC})
	requirePublicError(t, err, "Cannot be claimed (not in leaderboard)")

	collected, err := env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA})
	require.NoError(t, err)
	require.True(t, collected.Equal(decimal.NewFromInt(1050)))
	require.True(t, env.balance(t, testBidToken, testAdmin).Equal(decimal.NewFromInt(1050)))

	total, err := env.engine.TotalCollected(ctx)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(1050)))

	_, err = env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA})
	requirePublicError(t, err, "Cannot be claimed twice")
}

func TestClaimAuctionLeaderboardAllOrNothing(t *testing.T) {
	ctx := context.Background()
	env := settle(t)

	// the batch fails at bidder B, so bidder A must stay unclaimed
	_, err := env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA, bidderB})
	requirePublicError(t, err, "Cannot be claimed (not in leaderboard)")

	total, err := env.engine.TotalCollected(ctx)
	require.NoError(t, err)
	require.True(t, total.IsZero())

	collected, err := env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA})
	require.NoError(t, err)
	require.True(t, collected.Equal(decimal.NewFromInt(1050)))
}

func TestClaimAuctionLeaderboardDuplicateAccount(t *testing.T) {
	ctx := context.Background()
	env := settle(t)

	// the second occurrence sees the claimed flag set by the first
	_, err := env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA, bidderA})
	requirePublicError(t, err, "Cannot be claimed twice")

	total, err := env.engine.TotalCollected(ctx)
	require.NoError(t, err)
	require.True(t, total.IsZero())
	require.True(t, env.balance(t, testBidToken, testAdmin).IsZero())
}

func TestClaimZeroBidderAuction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA)
	count := env.closeAuction(t, 500)
	require.Zero(t, count)

	_, err := env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA})
	requirePublicError(t, err, "Cannot be claimed (not in leaderboard)")
}

func TestSettlementConservation(t *testing.T) {
	ctx := context.Background()
	env := settle(t)

	refunded, err := env.engine.ClaimAuction(ctx, bidderB, 1)
	require.NoError(t, err)
	collected, err := env.engine.ClaimAuctionLeaderboard(ctx, testAdmin, 1, []common.Address{bidderA})
	require.NoError(t, err)

	deposits := decimal.NewFromInt(1150)
	require.True(t, refunded.Add(collected).Equal(deposits))
	require.True(t, env.balance(t, testBidToken, testEscrow).IsZero())
}

func TestRecoverToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ledger.Mint(testOtherToken, testEscrow, decimal.NewFromInt(777))

	err := env.engine.RecoverToken(ctx, testOperator, testOtherToken, decimal.NewFromInt(777))
	requirePublicError(t, err, "Caller is not the administrator")

	err = env.engine.RecoverToken(ctx, testAdmin, testBidToken, decimal.NewFromInt(1))
	requirePublicError(t, err, "Cannot be dex token")

	require.NoError(t, env.engine.RecoverToken(ctx, testAdmin, testOtherToken, decimal.NewFromInt(777)))
	require.True(t, env.balance(t, testOtherToken, testAdmin).Equal(decimal.NewFromInt(777)))
	require.True(t, env.balance(t, testOtherToken, testEscrow).IsZero())
}
