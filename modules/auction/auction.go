// Package auction implements a whitelist-gated, time-boxed token auction
// settlement engine: the operator schedules and closes auctions, whitelisted
// accounts deposit escrowed bid tokens while the window is open, and after
// close the administrator collects leaderboard winners while everyone else
// self-claims a refund.
package auction

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/internal/blockclock"
	blockclockevm "github.com/dexauction/auction-engine/internal/blockclock/evm"
	"github.com/dexauction/auction-engine/internal/config"
	"github.com/dexauction/auction-engine/internal/postgres"
	"github.com/dexauction/auction-engine/internal/tokenledger"
	ledgermemory "github.com/dexauction/auction-engine/internal/tokenledger/memory"
	ledgerpostgres "github.com/dexauction/auction-engine/internal/tokenledger/postgres"
	"github.com/dexauction/auction-engine/modules/auction/api/httphandler"
	"github.com/dexauction/auction-engine/modules/auction/datagateway"
	repositorymemory "github.com/dexauction/auction-engine/modules/auction/repository/memory"
	repositorypostgres "github.com/dexauction/auction-engine/modules/auction/repository/postgres"
	"github.com/dexauction/auction-engine/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
)

// New wires the auction module: storage, token ledger, block clock, engine
// and the HTTP API. The engine is registered in the injector for shutdown
// and cross-module use.
func New(injector do.Injector) (*Engine, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	cfg := conf.Auction.WithDefaults()

	var (
		dg           datagateway.AuctionDataGateway
		ledger       tokenledger.Ledger
		cleanupFuncs []func()
	)
	switch cfg.Storage {
	case "memory":
		dg = repositorymemory.NewRepository()
		ledger = ledgermemory.New()
	case "postgres":
		pg, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "can't create postgres connection")
		}
		cleanupFuncs = append(cleanupFuncs, pg.Close)
		dg = repositorypostgres.NewRepository(pg)
		ledger = ledgerpostgres.NewLedger(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q storage is not supported", cfg.Storage)
	}

	var clock blockclock.Clock
	if cfg.EVMRPCURL != "" {
		evmClock, err := blockclockevm.Dial(ctx, cfg.EVMRPCURL)
		if err != nil {
			return nil, errors.Wrap(err, "can't connect block clock")
		}
		cleanupFuncs = append(cleanupFuncs, evmClock.Close)
		clock = evmClock
	} else {
		clock = blockclock.NewTicking(time.Now(), cfg.BlockInterval)
	}

	engine, err := NewEngine(ctx, dg, ledger, clock, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "can't create auction engine")
	}
	engine.cleanupFuncs = cleanupFuncs

	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := httphandler.New(engine)
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount auction API")
	}
	logger.InfoContext(ctx, "Mounted auction HTTP handler")

	return engine, nil
}

// Shutdown releases the engine's storage and clock connections.
func (e *Engine) Shutdown() error {
	for _, cleanup := range e.cleanupFuncs {
		cleanup()
	}
	return nil
}
