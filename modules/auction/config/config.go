package config

import (
	"time"

	"github.com/dexauction/auction-engine/internal/postgres"
)

type Config struct {
	// BidToken is the address of the token being escrowed; it can never be
	// swept by RecoverToken.
	BidToken string `mapstructure:"bid_token"`
	// Administrator settles leaderboard winners and recovers stray tokens.
	Administrator string `mapstructure:"administrator"`
	// Operator schedules/closes auctions and manages the whitelist. Initial
	// value only; the administrator can reassign it at runtime.
	Operator string `mapstructure:"operator"`
	// EscrowAccount is the ledger account the engine holds deposits on.
	EscrowAccount string `mapstructure:"escrow_account"`

	// MaxAuctionLength is the initial maximum auction window in blocks.
	// Must be nonzero and at most 144,000 blocks (about 5 days).
	MaxAuctionLength uint64 `mapstructure:"max_auction_length"`
	// SchedulingBuffer bounds both how far in the future an auction may
	// start and how far its end may lie beyond its start.
	SchedulingBuffer uint64 `mapstructure:"scheduling_buffer"`
	// SubUnitDivisor derives the granularity of non-first deposits:
	// initialBidAmount / SubUnitDivisor.
	SubUnitDivisor int64 `mapstructure:"sub_unit_divisor"`

	// Storage selects the state backend: "postgres" or "memory".
	Storage  string          `mapstructure:"storage"`
	Postgres postgres.Config `mapstructure:"postgres"`

	// EVMRPCURL enables the chain block clock. When empty, a wall-clock
	// derived block number with BlockInterval spacing is used instead.
	EVMRPCURL     string        `mapstructure:"evm_rpc_url"`
	BlockInterval time.Duration `mapstructure:"block_interval"`
}

const (
	DefaultSchedulingBuffer = 144_000
	DefaultSubUnitDivisor   = 10
	DefaultBlockInterval    = 3 * time.Second
)

// WithDefaults fills unset optional fields.
func (c Config) WithDefaults() Config {
	if c.SchedulingBuffer == 0 {
		c.SchedulingBuffer = DefaultSchedulingBuffer
	}
	if c.SubUnitDivisor == 0 {
		c.SubUnitDivisor = DefaultSubUnitDivisor
	}
	if c.BlockInterval == 0 {
		c.BlockInterval = DefaultBlockInterval
	}
	if c.Storage == "" {
		c.Storage = "postgres"
	}
	return c
}
