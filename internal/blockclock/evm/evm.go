// Package evm provides a block clock backed by an EVM JSON-RPC node.
package evm

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/internal/blockclock"
	"github.com/ethereum/go-ethereum/ethclient"
)

type Clock struct {
	client *ethclient.Client
}

var _ blockclock.Clock = (*Clock)(nil)

// Dial connects to the EVM node at rpcURL and verifies the connection with a
// block number query.
func Dial(ctx context.Context, rpcURL string) (*Clock, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "can't connect to EVM node %q", rpcURL)
	}
	c := &Clock{client: client}
	if _, err := c.CurrentBlock(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Clock) CurrentBlock(ctx context.Context) (uint64, error) {
	block, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to query block number")
	}
	return block, nil
}

func (c *Clock) Close() {
	c.client.Close()
}
