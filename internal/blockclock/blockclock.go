package blockclock

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock reports the current block number of the chain the auctions are
// scheduled against. Auction windows are expressed in block numbers, so the
// engine re-evaluates the clock on every call instead of running a scheduler.
type Clock interface {
	CurrentBlock(ctx context.Context) (uint64, error)
}

// Fixed is a manually advanced clock. It is used in tests and anywhere the
// block number is driven externally.
type Fixed struct {
	block atomic.Uint64
}

func NewFixed(block uint64) *Fixed {
	f := &Fixed{}
	f.block.Store(block)
	return f
}

func (f *Fixed) CurrentBlock(_ context.Context) (uint64, error) {
	return f.block.Load(), nil
}

// Set moves the clock to the given block number.
func (f *Fixed) Set(block uint64) {
	f.block.Store(block)
}

// Advance moves the clock forward by n blocks and returns the new block number.
func (f *Fixed) Advance(n uint64) uint64 {
	return f.block.Add(n)
}

// Ticking derives the block number from wall time and a fixed block interval.
// It is a stand-in for a real chain clock in standalone deployments.
type Ticking struct {
	genesis  time.Time
	interval time.Duration
}

func NewTicking(genesis time.Time, interval time.Duration) *Ticking {
	return &Ticking{genesis: genesis, interval: interval}
}

func (t *Ticking) CurrentBlock(_ context.Context) (uint64, error) {
	elapsed := time.Since(t.genesis)
	if elapsed < 0 {
		return 0, nil
	}
	return uint64(elapsed / t.interval), nil
}
