package auction

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/internal/blockclock"
	ledgermemory "github.com/dexauction/auction-engine/internal/tokenledger/memory"
	"github.com/dexauction/auction-engine/modules/auction/config"
	"github.com/dexauction/auction-engine/modules/auction/repository/memory"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testBidToken   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testOtherToken = common.HexToAddress("0x1000000000000000000000000000000000000002")
	testAdmin      = common.HexToAddress("0x2000000000000000000000000000000000000001")
	testOperator   = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testEscrow     = common.HexToAddress("0x2000000000000000000000000000000000000003")
	bidderA        = common.HexToAddress("0x3000000000000000000000000000000000000001")
	bidderB        = common.HexToAddress("0x3000000000000000000000000000000000000002")
	bidderC        = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

type testEnv struct {
	engine *Engine
	repo   *memory.Repository
	ledger *ledgermemory.Ledger
	clock  *blockclock.Fixed
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, func(*config.Config) {})
}

// newTestEnvWith builds an engine on the memory backends at block 100,
// letting the test override config fields before construction.
func newTestEnvWith(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()
	repo := memory.NewRepository()
	ledger := ledgermemory.New()
	clock := blockclock.NewFixed(100)
	cfg := config.Config{
		BidToken:         testBidToken.Hex(),
		Administrator:    testAdmin.Hex(),
		Operator:         testOperator.Hex(),
		EscrowAccount:    testEscrow.Hex(),
		MaxAuctionLength: 1000,
		Storage:          "memory",
	}
	mutate(&cfg)
	engine, err := NewEngine(context.Background(), repo, ledger, clock, cfg)
	require.NoError(t, err)
	return &testEnv{engine: engine, repo: repo, ledger: ledger, clock: clock}
}

// fund mints bid tokens to account and approves the escrow to pull them.
func (env *testEnv) fund(t *testing.T, account common.Address, amount int64) {
	t.Helper()
	env.ledger.Mint(testBidToken, account, decimal.NewFromInt(amount))
	err := env.ledger.Approve(context.Background(), testBidToken, account, testEscrow, decimal.NewFromInt(amount))
	require.NoError(t, err)
}

func (env *testEnv) whitelist(t *testing.T, accounts ...common.Address) {
	t.Helper()
	_, err := env.engine.AddWhitelist(context.Background(), testOperator, accounts)
	require.NoError(t, err)
}

// openAuction whitelists the given bidders, schedules an auction with
// initialBidAmount 100 and moves the clock into its window.
func (env *testEnv) openAuction(t *testing.T, bidders ...common.Address) uint64 {
	t.Helper()
	env.whitelist(t, bidders...)
	current, err := env.clock.CurrentBlock(context.Background())
	require.NoError(t, err)
	id, err := env.engine.StartAuction(context.Background(), testOperator, current+10, current+110, decimal.NewFromInt(100), 3)
	require.NoError(t, err)
	env.clock.Set(current + 10)
	return id
}

// closeAuction moves the clock past the auction window and closes with the
// given clearing amount.
func (env *testEnv) closeAuction(t *testing.T, threshold int64) uint64 {
	t.Helper()
	env.clock.Advance(200)
	count, err := env.engine.CloseAuction(context.Background(), testOperator, decimal.NewFromInt(threshold))
	require.NoError(t, err)
	return count
}

func (env *testEnv) balance(t *testing.T, token, account common.Address) decimal.Decimal {
	t.Helper()
	balance, err := env.ledger.BalanceOf(context.Background(), token, account)
	require.NoError(t, err)
	return balance
}

func requirePublicError(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	e := new(errs.PublicError)
	require.True(t, errors.As(err, &e), "expected public error, got %+v", err)
	require.Equal(t, message, e.Message())
}

func TestNewEngineValidation(t *testing.T) {
	base := config.Config{
		BidToken:      testBidToken.Hex(),
		Administrator: testAdmin.Hex(),
		Operator:      testOperator.Hex(),
		EscrowAccount: testEscrow.Hex(),
	}
	newEngine := func(cfg config.Config) error {
		_, err := NewEngine(context.Background(), memory.NewRepository(), ledgermemory.New(), blockclock.NewFixed(0), cfg)
		return err
	}

	t.Run("zero max auction length", func(t *testing.T) {
		cfg := base
		cfg.MaxAuctionLength = 0
		requirePublicError(t, newEngine(cfg), "Length cannot be zero")
	})

	t.Run("excessive max auction length", func(t *testing.T) {
		cfg := base
		cfg.MaxAuctionLength = MaxAuctionLengthCeiling + 1
		requirePublicError(t, newEngine(cfg), "Length cannot exceed 5-day bound")
	})

	t.Run("operator equals administrator", func(t *testing.T) {
		cfg := base
		cfg.MaxAuctionLength = 1000
		cfg.Operator = testAdmin.Hex()
		require.Error(t, newEngine(cfg))
	})

	t.Run("invalid address", func(t *testing.T) {
		cfg := base
		cfg.MaxAuctionLength = 1000
		cfg.BidToken = "not-an-address"
		err := newEngine(cfg)
		require.Error(t, err)
		require.True(t, errors.Is(err, errs.InvalidArgument))
	})

	t.Run("valid config", func(t *testing.T) {
		cfg := base
		cfg.MaxAuctionLength = MaxAuctionLengthCeiling
		require.NoError(t, newEngine(cfg))
	})
}
