package auction

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/ethereum/go-ethereum/common"
)

// AddWhitelist registers accounts as eligible bidders. Operator only,
// forbidden while an auction is unclosed. Already-present accounts are
// skipped without an event. Returns the number of accounts actually added.
func (e *Engine) AddWhitelist(ctx context.Context, caller common.Address, accounts []common.Address) (uint64, error) {
	return e.mutateWhitelist(ctx, caller, accounts, true)
}

// RemoveWhitelist revokes bidding eligibility. Operator only, forbidden
// while an auction is unclosed. Absent accounts are skipped without an
// event. Returns the number of accounts actually removed.
func (e *Engine) RemoveWhitelist(ctx context.Context, caller common.Address, accounts []common.Address) (uint64, error) {
	return e.mutateWhitelist(ctx, caller, accounts, false)
}

func (e *Engine) mutateWhitelist(ctx context.Context, caller common.Address, accounts []common.Address, add bool) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, params, _, err := e.begin(ctx)
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

	kind := entity.EventWhitelistAdded
	if !add {
		kind = entity.EventWhitelistRemoved
	}

	var changed uint64
	for _, account := range accounts {
		var applied bool
		if add {
			applied, err = qtx.AddWhitelist(ctx, account)
		} else {
			applied, err = qtx.RemoveWhitelist(ctx, account)
		}
		if err != nil {
			return 0, errors.Wrap(err, "failed to mutate whitelist")
		}
		if !applied {
			continue
		}
		changed++
		err = qtx.AddEvent(ctx, entity.Event{
			Kind:      kind,
			Account:   account,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return 0, errors.Wrap(err, "failed to add event")
		}
	}

	if err := qtx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}
	return changed, nil
}

// Whitelisted reports whether account is currently eligible to bid.
func (e *Engine) Whitelisted(ctx context.Context, account common.Address) (bool, error) {
	whitelisted, err := e.dg.IsWhitelisted(ctx, account)
	if err != nil {
		return false, errors.Wrap(err, "failed to check whitelist")
	}
	return whitelisted, nil
}
