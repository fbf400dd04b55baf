package auction

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/internal/blockclock"
	"github.com/dexauction/auction-engine/internal/tokenledger"
	"github.com/dexauction/auction-engine/modules/auction/config"
	"github.com/dexauction/auction-engine/modules/auction/datagateway"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/dexauction/auction-engine/pkg/logger"
	"github.com/dexauction/auction-engine/pkg/logger/slogx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// MaxAuctionLengthCeiling is the hard upper bound for the configurable
// maximum auction length: 144,000 blocks, about 5 days.
const MaxAuctionLengthCeiling = 144_000

// Engine is the auction settlement engine. Every public operation executes
// as one atomic, serialized step: the mutex totally orders callers, and all
// state changes of an operation happen inside a single datagateway
// transaction that commits only after any token-ledger call has succeeded.
// A failed operation therefore has no effect.
type Engine struct {
	mu     sync.Mutex
	dg     datagateway.AuctionDataGateway
	ledger tokenledger.Ledger
	clock  blockclock.Clock

	bidToken      common.Address
	administrator common.Address
	escrow        common.Address

	schedulingBuffer uint64
	subUnitDivisor   decimal.Decimal

	cleanupFuncs []func()
}

// NewEngine wires the engine against its collaborators and seeds the
// persisted params on first run. Configuration violations surface the same
// stable reasons as the runtime setters.
func NewEngine(ctx context.Context, dg datagateway.AuctionDataGateway, ledger tokenledger.Ledger, clock blockclock.Clock, cfg config.Config) (*Engine, error) {
	cfg = cfg.WithDefaults()

	bidToken, err := parseAddress(cfg.BidToken, "bid_token")
	if err != nil {
		return nil, err
	}
	administrator, err := parseAddress(cfg.Administrator, "administrator")
	if err != nil {
		return nil, err
	}
	operator, err := parseAddress(cfg.Operator, "operator")
	if err != nil {
		return nil, err
	}
	escrow, err := parseAddress(cfg.EscrowAccount, "escrow_account")
	if err != nil {
		return nil, err
	}
	if operator == administrator {
		return nil, errors.Wrap(errs.InvalidArgument, "operator and administrator must be distinct")
	}
	if err := validateMaxAuctionLength(cfg.MaxAuctionLength); err != nil {
		return nil, err
	}
	if cfg.SubUnitDivisor <= 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "sub_unit_divisor must be positive")
	}

	e := &Engine{
		dg:               dg,
		ledger:           ledger,
		clock:            clock,
		bidToken:         bidToken,
		administrator:    administrator,
		escrow:           escrow,
		schedulingBuffer: cfg.SchedulingBuffer,
		subUnitDivisor:   decimal.NewFromInt(cfg.SubUnitDivisor),
	}

	// Seed persisted params on first run; an existing deployment keeps its
	// current operator and max length.
	if _, err := dg.GetParams(ctx); err != nil {
		if !errors.Is(err, errs.NotFound) {
			return nil, errors.Wrap(err, "failed to load engine params")
		}
		err := dg.SetParams(ctx, entity.EngineParams{
			Operator:         operator,
			MaxAuctionLength: cfg.MaxAuctionLength,
			TotalCollected:   decimal.Zero,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to seed engine params")
		}
		logger.InfoContext(ctx, "Seeded engine params",
			slogx.Stringer("operator", operator),
			slogx.Uint64("maxAuctionLength", cfg.MaxAuctionLength))
	}

	return e, nil
}

// Administrator returns the fixed administrator address.
func (e *Engine) Administrator() common.Address {
	return e.administrator
}

// BidToken returns the escrowed token address.
func (e *Engine) BidToken() common.Address {
	return e.bidToken
}

func parseAddress(raw, field string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, errors.Wrapf(errs.InvalidArgument, "%s is not a valid address: %q", field, raw)
	}
	return common.HexToAddress(raw), nil
}

func validateMaxAuctionLength(value uint64) error {
	if value == 0 {
		return errs.NewPublicErrorFrom(errs.InvalidArgument, "Length cannot be zero")
	}
	if value > MaxAuctionLengthCeiling {
		return errs.NewPublicErrorFrom(errs.InvalidArgument, "Length cannot exceed 5-day bound")
	}
	return nil
}

// reject builds a stable, user-visible rejection carrying both the error
// kind and the exact reason string.
func reject(kind errs.ErrorKind, reason string) error {
	return errs.NewPublicErrorFrom(kind, reason)
}

func (e *Engine) requireOperator(params entity.EngineParams, caller common.Address) error {
	if caller != params.Operator {
		return reject(errs.Unauthorized, "Caller is not the operator")
	}
	return nil
}

func (e *Engine) requireAdministrator(caller common.Address) error {
	if caller != e.administrator {
		return reject(errs.Unauthorized, "Caller is not the administrator")
	}
	return nil
}

// begin opens a transaction and loads the pieces almost every mutating
// operation needs. Callers must defer qtx.Rollback.
func (e *Engine) begin(ctx context.Context) (qtx datagateway.AuctionDataGatewayWithTx, params entity.EngineParams, currentBlock uint64, err error) {
	currentBlock, err = e.clock.CurrentBlock(ctx)
	if err != nil {
		return nil, entity.EngineParams{}, 0, errors.Wrap(err, "failed to read current block")
	}
	qtx, err = e.dg.BeginAuctionTx(ctx)
	if err != nil {
		return nil, entity.EngineParams{}, 0, errors.Wrap(err, "failed to begin transaction")
	}
	p, err := qtx.GetParams(ctx)
	if err != nil {
		_ = qtx.Rollback(ctx)
		return nil, entity.EngineParams{}, 0, errors.Wrap(err, "failed to load engine params")
	}
	return qtx, *p, currentBlock, nil
}

// hasUnclosedAuction reports whether an auction exists in Pending or Open
// state. At most one can.
func hasUnclosedAuction(ctx context.Context, dg datagateway.AuctionDataGateway) (bool, error) {
	latest, err := dg.GetLatestAuction(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to load latest auction")
	}
	return latest.Status != entity.AuctionStatusClosed, nil
}

// isMultipleOf reports whether amount is a positive integer multiple of unit.
func isMultipleOf(amount, unit decimal.Decimal) bool {
	if !amount.IsPositive() || !unit.IsPositive() {
		return false
	}
	return amount.Mod(unit).IsZero()
}

// nextCursor computes the pagination cursor following a page of `returned`
// items starting at `cursor`, or 0 when the collection is exhausted.
func nextCursor(cursor, returned, total uint64) uint64 {
	next := cursor + returned
	if next >= total {
		return 0
	}
	return next
}
