package auction

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestWhitelistAddRemove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.AddWhitelist(ctx, bidderA, []common.Address{bidderA})
	requirePublicError(t, err, "Caller is not the operator")

	added, err := env.engine.AddWhitelist(ctx, testOperator, []common.Address{bidderA, bidderB})
	require.NoError(t, err)
	require.Equal(t, uint64(2), added)

	// re-adding is a no-op
	added, err = env.engine.AddWhitelist(ctx, testOperator, []common.Address{bidderA, bidderC})
	require.NoError(t, err)
	require.Equal(t, uint64(1), added)

	whitelisted, err := env.engine.Whitelisted(ctx, bidderB)
	require.NoError(t, err)
	require.True(t, whitelisted)

	removed, err := env.engine.RemoveWhitelist(ctx, testOperator, []common.Address{bidderB, testEscrow})
	require.NoError(t, err)
	require.Equal(t, uint64(1), removed)

	whitelisted, err = env.engine.Whitelisted(ctx, bidderB)
	require.NoError(t, err)
	require.False(t, whitelisted)
}

func TestWhitelistRemovalCompacts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.whitelist(t, bidderA, bidderB, bidderC)

	// removing the first entry moves the last one into its slot
	removed, err := env.engine.RemoveWhitelist(ctx, testOperator, []common.Address{bidderA})
	require.NoError(t, err)
	require.Equal(t, uint64(1), removed)

	accounts, next, err := env.engine.ViewWhitelist(ctx, 0, 10)
	require.NoError(t, err)
	require.Zero(t, next)
	require.Equal(t, []common.Address{bidderC, bidderB}, accounts)
}

func TestWhitelistFrozenWhileAuctionUnclosed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.openAuction(t, bidderA)

	_, err := env.engine.AddWhitelist(ctx, testOperator, []common.Address{bidderB})
	requirePublicError(t, err, "In progress")

	_, err = env.engine.RemoveWhitelist(ctx, testOperator, []common.Address{bidderA})
	requirePublicError(t, err, "In progress")

	env.closeAuction(t, 1)

	added, err := env.engine.AddWhitelist(ctx, testOperator, []common.Address{bidderB})
	require.NoError(t, err)
	require.Equal(t, uint64(1), added)
}

func TestWhitelistNoOpEmitsNoEvent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.whitelist(t, bidderA)

	before, err := env.engine.ViewAuctionEvents(ctx, 0, 0, 100)
	require.NoError(t, err)

	_, err = env.engine.AddWhitelist(ctx, testOperator, []common.Address{bidderA})
	require.NoError(t, err)
	_, err = env.engine.RemoveWhitelist(ctx, testOperator, []common.Address{bidderB})
	require.NoError(t, err)

	after, err := env.engine.ViewAuctionEvents(ctx, 0, 0, 100)
	require.NoError(t, err)
	require.Len(t, after, len(before))
}
