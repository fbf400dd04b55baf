package postgres

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/dexauction/auction-engine/pkg/decimals"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// wrapNotFound maps pgx.ErrNoRows to errs.NotFound so callers can branch on
// the error kind without knowing the storage backend.
func wrapNotFound(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.WithStack(errs.NotFound)
	}
	return errors.Wrap(err, message)
}

func scanAuction(row pgx.Row) (*entity.Auction, error) {
	var (
		id, startBlock, endBlock    int64
		status                      string
		leaderboardSize             int32
		initialBidAmount, threshold pgtype.Numeric
	)
	err := row.Scan(&id, &status, &startBlock, &endBlock, &initialBidAmount, &leaderboardSize, &threshold)
	if err != nil {
		return nil, wrapNotFound(err, "cannot scan auction")
	}
	initial, err := decimals.FromNumeric(initialBidAmount)
	if err != nil {
		return nil, errors.Wrap(err, "invalid initial_bid_amount")
	}
	clearing, err := decimals.FromNumeric(threshold)
	if err != nil {
		return nil, errors.Wrap(err, "invalid leaderboard_threshold")
	}
	return &entity.Auction{
		ID:                   uint64(id),
		Status:               entity.AuctionStatus(status),
		StartBlock:           uint64(startBlock),
		EndBlock:             uint64(endBlock),
		InitialBidAmount:     initial,
		LeaderboardSize:      uint32(leaderboardSize),
		LeaderboardThreshold: clearing,
	}, nil
}

func scanBid(row pgx.Row) (*entity.Bid, error) {
	var (
		auctionID, entryIndex int64
		bidder                string
		amount                pgtype.Numeric
		hasClaimed            bool
	)
	err := row.Scan(&auctionID, &bidder, &amount, &hasClaimed, &entryIndex)
	if err != nil {
		return nil, wrapNotFound(err, "cannot scan bid")
	}
	value, err := decimals.FromNumeric(amount)
	if err != nil {
		return nil, errors.Wrap(err, "invalid amount")
	}
	return &entity.Bid{
		AuctionID:  uint64(auctionID),
		Bidder:     common.HexToAddress(bidder),
		Amount:     value,
		HasClaimed: hasClaimed,
		EntryIndex: uint64(entryIndex),
	}, nil
}

func collectBids(rows pgx.Rows) ([]entity.Bid, error) {
	defer rows.Close()
	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}
	return bids, errors.Wrap(rows.Err(), "cannot collect bids")
}

func collectAddresses(rows pgx.Rows) ([]common.Address, error) {
	defer rows.Close()
	accounts := make([]common.Address, 0)
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, errors.Wrap(err, "cannot scan account")
		}
		accounts = append(accounts, common.HexToAddress(account))
	}
	return accounts, errors.Wrap(rows.Err(), "cannot collect accounts")
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var (
		id, auctionID int64
		kind, account string
		amount        pgtype.Numeric
		metadata      []byte
		createdAt     pgtype.Timestamptz
	)
	err := row.Scan(&id, &kind, &auctionID, &account, &amount, &metadata, &createdAt)
	if err != nil {
		return nil, wrapNotFound(err, "cannot scan event")
	}
	value, err := decimals.FromNumeric(amount)
	if err != nil {
		return nil, errors.Wrap(err, "invalid amount")
	}
	var meta map[string]any
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &meta); err != nil {
			return nil, errors.Wrap(err, "cannot unmarshal event metadata")
		}
	}
	return &entity.Event{
		ID:        uint64(id),
		Kind:      entity.EventKind(kind),
		AuctionID: uint64(auctionID),
		Account:   common.HexToAddress(account),
		Amount:    value,
		Metadata:  meta,
		CreatedAt: createdAt.Time,
	}, nil
}
