package auction

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/dexauction/auction-engine/pkg/logger"
	"github.com/dexauction/auction-engine/pkg/logger/slogx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// StartAuction schedules a new auction in Pending state and returns its id.
// Operator only. At most one auction may be unclosed at any time.
func (e *Engine) StartAuction(ctx context.Context, caller common.Address, startBlock, endBlock uint64, initialBidAmount decimal.Decimal, leaderboardSize uint32) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, params, currentBlock, err := e.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	if err := e.requireOperator(params, caller); err != nil {
		return 0, err
	}
	unclosed, err := hasUnclosedAuction(ctx, qtx)
	if err != nil {
		return 0, err
	}
	if unclosed {
		return 0, reject(errs.InvalidState, "In progress")
	}
	whitelisted, err := qtx.CountWhitelist(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count whitelist")
	}
	if whitelisted == 0 {
		return 0, reject(errs.InvalidState, "No whitelisted address")
	}

	switch {
	case startBlock <= currentBlock:
		return 0, reject(errs.InvalidArgument, "Start block must be after current block")
	case startBlock >= endBlock:
		return 0, reject(errs.InvalidArgument, "Start block must be before end block")
	case endBlock-startBlock > params.MaxAuctionLength:
		return 0, reject(errs.InvalidArgument, "Auction length cannot exceed maximum")
	case startBlock-currentBlock > e.schedulingBuffer:
		return 0, reject(errs.InvalidArgument, "Start block too far in the future")
	case endBlock-startBlock > e.schedulingBuffer:
		return 0, reject(errs.InvalidArgument, "End block too far in the future")
	case !initialBidAmount.IsPositive():
		return 0, reject(errs.InvalidArgument, "Initial bid amount cannot be zero")
	case leaderboardSize == 0:
		return 0, reject(errs.InvalidArgument, "Leaderboard size cannot be zero")
	}

	count, err := qtx.CountAuctions(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count auctions")
	}
	auctionID := count + 1

	err = qtx.CreateAuction(ctx, entity.Auction{
		ID:               auctionID,
		Status:           entity.AuctionStatusPending,
		StartBlock:       startBlock,
		EndBlock:         endBlock,
		InitialBidAmount: initialBidAmount,
		LeaderboardSize:  leaderboardSize,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to create auction")
	}
	err = qtx.AddEvent(ctx, entity.Event{
		Kind:      entity.EventAuctionStarted,
		AuctionID: auctionID,
		Account:   caller,
		Amount:    initialBidAmount,
		Metadata: map[string]any{
			"startBlock":      startBlock,
			"endBlock":        endBlock,
			"leaderboardSize": leaderboardSize,
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to add event")
	}
	if err := qtx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Auction started",
		slogx.Uint64("auctionId", auctionID),
		slogx.Uint64("startBlock", startBlock),
		slogx.Uint64("endBlock", endBlock),
		slogx.Stringer("initialBidAmount", initialBidAmount))
	return auctionID, nil
}

// CloseAuction flips the current auction to Closed, recording clearingAmount
// as its leaderboard threshold. Operator only, allowed only after the end
// block has passed. Returns the number of distinct bidders who deposited.
func (e *Engine) CloseAuction(ctx context.Context, caller common.Address, clearingAmount decimal.Decimal) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, params, currentBlock, err := e.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	if err := e.requireOperator(params, caller); err != nil {
		return 0, err
	}
	latest, err := qtx.GetLatestAuction(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return 0, reject(errs.InvalidState, "Not in progress")
		}
		return 0, errors.Wrap(err, "failed to load latest auction")
	}
	if latest.Status == entity.AuctionStatusClosed {
		return 0, reject(errs.InvalidState, "Not in progress")
	}
	if currentBlock <= latest.EndBlock {
		return 0, reject(errs.InvalidState, "In progress")
	}
	if clearingAmount.IsNegative() {
		return 0, reject(errs.InvalidArgument, "Clearing amount cannot be negative")
	}

	if err := qtx.CloseAuction(ctx, latest.ID, clearingAmount); err != nil {
		return 0, errors.Wrap(err, "failed to close auction")
	}
	bidderCount, err := qtx.CountBidsByAuction(ctx, latest.ID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count bidders")
	}
	err = qtx.AddEvent(ctx, entity.Event{
		Kind:      entity.EventAuctionClosed,
		AuctionID: latest.ID,
		Account:   caller,
		Amount:    clearingAmount,
		Metadata: map[string]any{
			"bidderCount": bidderCount,
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to add event")
	}
	if err := qtx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Auction closed",
		slogx.Uint64("auctionId", latest.ID),
		slogx.Stringer("clearingAmount", clearingAmount),
		slogx.Uint64("bidderCount", bidderCount))
	return bidderCount, nil
}

// SetMaxAuctionLength updates the maximum auction window. Operator only,
// forbidden while an auction is unclosed.
func (e *Engine) SetMaxAuctionLength(ctx context.Context, caller common.Address, value uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, params, _, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	if err := e.requireOperator(params, caller); err != nil {
		return err
	}
	unclosed, err := hasUnclosedAuction(ctx, qtx)
	if err != nil {
		return err
	}
	if unclosed {
		return reject(errs.InvalidState, "In progress")
	}
	if err := validateMaxAuctionLength(value); err != nil {
		return err
	}

	previous := params.MaxAuctionLength
	params.MaxAuctionLength = value
	if err := qtx.SetParams(ctx, params); err != nil {
		return errors.Wrap(err, "failed to update params")
	}
	err = qtx.AddEvent(ctx, entity.Event{
		Kind:    entity.EventMaxLengthChanged,
		Account: caller,
		Metadata: map[string]any{
			"previous": previous,
			"value":    value,
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to add event")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// SetOperatorAddress reassigns the operator role. Administrator only.
func (e *Engine) SetOperatorAddress(ctx context.Context, caller, newOperator common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdministrator(caller); err != nil {
		return err
	}
	if newOperator == (common.Address{}) {
		return reject(errs.InvalidArgument, "Operator cannot be zero address")
	}
	if newOperator == e.administrator {
		return reject(errs.InvalidArgument, "Operator cannot be the administrator")
	}

	qtx, params, _, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = qtx.Rollback(ctx) }()

	previous := params.Operator
	params.Operator = newOperator
	if err := qtx.SetParams(ctx, params); err != nil {
		return errors.Wrap(err, "failed to update params")
	}
	err = qtx.AddEvent(ctx, entity.Event{
		Kind:    entity.EventOperatorChanged,
		Account: newOperator,
		Metadata: map[string]any{
			"previous": previous.Hex(),
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to add event")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Operator reassigned",
		slogx.Stringer("previous", previous),
		slogx.Stringer("operator", newOperator))
	return nil
}
