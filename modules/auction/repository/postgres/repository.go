package postgres

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/dexauction/auction-engine/common/errs"
	"github.com/dexauction/auction-engine/internal/postgres"
	"github.com/dexauction/auction-engine/modules/auction/datagateway"
	"github.com/dexauction/auction-engine/modules/auction/internal/entity"
	"github.com/dexauction/auction-engine/pkg/decimals"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db postgres.DB
	q  postgres.Queryable
	tx pgx.Tx
}

var _ datagateway.AuctionDataGateway = (*Repository)(nil)

func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db, q: db}
}

// ---- engine params (single row) ----

func (repo *Repository) GetParams(ctx context.Context) (*entity.EngineParams, error) {
	var (
		operator         string
		maxAuctionLength int64
		totalCollected   pgtype.Numeric
	)
	err := repo.q.QueryRow(ctx, `
		SELECT operator, max_auction_length, total_collected
		FROM engine_params WHERE singleton
	`).Scan(&operator, &maxAuctionLength, &totalCollected)
	if err != nil {
		return nil, wrapNotFound(err, "cannot get engine params")
	}
	collected, err := decimals.FromNumeric(totalCollected)
	if err != nil {
		return nil, errors.Wrap(err, "invalid total_collected")
	}
	return &entity.EngineParams{
		Operator:         common.HexToAddress(operator),
		MaxAuctionLength: uint64(maxAuctionLength),
		TotalCollected:   collected,
	}, nil
}

func (repo *Repository) SetParams(ctx context.Context, params entity.EngineParams) error {
	_, err := repo.q.Exec(ctx, `
		INSERT INTO engine_params (singleton, operator, max_auction_length, total_collected)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (singleton) DO UPDATE SET
			operator = EXCLUDED.operator,
			max_auction_length = EXCLUDED.max_auction_length,
			total_collected = EXCLUDED.total_collected
	`, params.Operator.Hex(), int64(params.MaxAuctionLength), decimals.ToNumeric(params.TotalCollected))
	if err != nil {
		return errors.Wrap(err, "cannot set engine params")
	}
	return nil
}

// ---- auctions ----

func (repo *Repository) CreateAuction(ctx context.Context, auction entity.Auction) error {
	_, err := repo.q.Exec(ctx, `
		INSERT INTO auctions (id, status, start_block, end_block, initial_bid_amount, leaderboard_size, leaderboard_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, int64(auction.ID), string(auction.Status), int64(auction.StartBlock), int64(auction.EndBlock),
		decimals.ToNumeric(auction.InitialBidAmount), int32(auction.LeaderboardSize), decimals.ToNumeric(auction.LeaderboardThreshold))
	if err != nil {
		return errors.Wrap(err, "cannot create auction")
	}
	return nil
}

func (repo *Repository) CloseAuction(ctx context.Context, auctionID uint64, threshold decimal.Decimal) error {
	tag, err := repo.q.Exec(ctx, `
		UPDATE auctions SET status = $2, leaderboard_threshold = $3 WHERE id = $1
	`, int64(auctionID), string(entity.AuctionStatusClosed), decimals.ToNumeric(threshold))
	if err != nil {
		return errors.Wrap(err, "cannot close auction")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (repo *Repository) GetAuction(ctx context.Context, auctionID uint64) (*entity.Auction, error) {
	row := repo.q.QueryRow(ctx, `
		SELECT id, status, start_block, end_block, initial_bid_amount, leaderboard_size, leaderboard_threshold
		FROM auctions WHERE id = $1
	`, int64(auctionID))
	return scanAuction(row)
}

func (repo *Repository) GetLatestAuction(ctx context.Context) (*entity.Auction, error) {
	row := repo.q.QueryRow(ctx, `
		SELECT id, status, start_block, end_block, initial_bid_amount, leaderboard_size, leaderboard_threshold
		FROM auctions ORDER BY id DESC LIMIT 1
	`)
	return scanAuction(row)
}

func (repo *Repository) GetAuctions(ctx context.Context, cursor, size uint64) ([]entity.Auction, error) {
	rows, err := repo.q.Query(ctx, `
		SELECT id, status, start_block, end_block, initial_bid_amount, leaderboard_size, leaderboard_threshold
		FROM auctions ORDER BY id OFFSET $1 LIMIT $2
	`, int64(cursor), int64(size))
	if err != nil {
		return nil, errors.Wrap(err, "cannot list auctions")
	}
	defer rows.Close()
	auctions := make([]entity.Auction, 0)
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, *auction)
	}
	return auctions, errors.Wrap(rows.Err(), "cannot list auctions")
}

func (repo *Repository) CountAuctions(ctx context.Context) (uint64, error) {
	return repo.count(ctx, `SELECT count(*) FROM auctions`)
}

// ---- bids ----

func (repo *Repository) CreateBid(ctx context.Context, bid entity.Bid) error {
	_, err := repo.q.Exec(ctx, `
		INSERT INTO bids (auction_id, bidder, amount, has_claimed, entry_index)
		VALUES ($1, $2, $3, $4, $5)
	`, int64(bid.AuctionID), bid.Bidder.Hex(), decimals.ToNumeric(bid.Amount), bid.HasClaimed, int64(bid.EntryIndex))
	if err != nil {
		return errors.Wrap(err, "cannot create bid")
	}
	return nil
}

func (repo *Repository) UpdateBidAmount(ctx context.Context, auctionID uint64, bidder common.Address, amount decimal.Decimal) error {
	tag, err := repo.q.Exec(ctx, `
		UPDATE bids SET amount = $3 WHERE auction_id = $1 AND bidder = $2
	`, int64(auctionID), bidder.Hex(), decimals.ToNumeric(amount))
	if err != nil {
		return errors.Wrap(err, "cannot update bid amount")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (repo *Repository) MarkBidClaimed(ctx context.Context, auctionID uint64, bidder common.Address) error {
	tag, err := repo.q.Exec(ctx, `
		UPDATE bids SET has_claimed = TRUE WHERE auction_id = $1 AND bidder = $2
	`, int64(auctionID), bidder.Hex())
	if err != nil {
		return errors.Wrap(err, "cannot mark bid claimed")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (repo *Repository) GetBid(ctx context.Context, auctionID uint64, bidder common.Address) (*entity.Bid, error) {
	row := repo.q.QueryRow(ctx, `
		SELECT auction_id, bidder, amount, has_claimed, entry_index
		FROM bids WHERE auction_id = $1 AND bidder = $2
	`, int64(auctionID), bidder.Hex())
	return scanBid(row)
}

func (repo *Repository) GetBidsByAuction(ctx context.Context, auctionID uint64, cursor, size uint64) ([]entity.Bid, error) {
	rows, err := repo.q.Query(ctx, `
		SELECT auction_id, bidder, amount, has_claimed, entry_index
		FROM bids WHERE auction_id = $1 ORDER BY entry_index OFFSET $2 LIMIT $3
	`, int64(auctionID), int64(cursor), int64(size))
	if err != nil {
		return nil, errors.Wrap(err, "cannot list bids")
	}
	return collectBids(rows)
}

func (repo *Repository) CountBidsByAuction(ctx context.Context, auctionID uint64) (uint64, error) {
	return repo.count(ctx, `SELECT count(*) FROM bids WHERE auction_id = $1`, int64(auctionID))
}

func (repo *Repository) GetBidsByBidder(ctx context.Context, bidder common.Address, cursor, size uint64) ([]entity.Bid, error) {
	rows, err := repo.q.Query(ctx, `
		SELECT auction_id, bidder, amount, has_claimed, entry_index
		FROM bids WHERE bidder = $1 ORDER BY auction_id OFFSET $2 LIMIT $3
	`, bidder.Hex(), int64(cursor), int64(size))
	if err != nil {
		return nil, errors.Wrap(err, "cannot list bids by bidder")
	}
	return collectBids(rows)
}

func (repo *Repository) CountBidsByBidder(ctx context.Context, bidder common.Address) (uint64, error) {
	return repo.count(ctx, `SELECT count(*) FROM bids WHERE bidder = $1`, bidder.Hex())
}

// ---- bidder registry ----

func (repo *Repository) AddBidder(ctx context.Context, account common.Address) (bool, error) {
	tag, err := repo.q.Exec(ctx, `
		INSERT INTO bidders (account) VALUES ($1) ON CONFLICT (account) DO NOTHING
	`, account.Hex())
	if err != nil {
		return false, errors.Wrap(err, "cannot add bidder")
	}
	return tag.RowsAffected() > 0, nil
}

func (repo *Repository) GetBidders(ctx context.Context, cursor, size uint64) ([]common.Address, error) {
	rows, err := repo.q.Query(ctx, `
		SELECT account FROM bidders ORDER BY seq OFFSET $1 LIMIT $2
	`, int64(cursor), int64(size))
	if err != nil {
		return nil, errors.Wrap(err, "cannot list bidders")
	}
	return collectAddresses(rows)
}

func (repo *Repository) CountBidders(ctx context.Context) (uint64, error) {
	return repo.count(ctx, `SELECT count(*) FROM bidders`)
}

// ---- whitelist ----

func (repo *Repository) AddWhitelist(ctx context.Context, account common.Address) (bool, error) {
	tag, err := repo.q.Exec(ctx, `
		INSERT INTO whitelist (account, position)
		SELECT $1, COALESCE(MAX(position) + 1, 0) FROM whitelist
		ON CONFLICT (account) DO NOTHING
	`, account.Hex())
	if err != nil {
		return false, errors.Wrap(err, "cannot add to whitelist")
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveWhitelist fills the removed slot with the highest-position entry so
// positions stay dense. Enumeration order after a removal is consistent, not
// stable.
func (repo *Repository) RemoveWhitelist(ctx context.Context, account common.Address) (bool, error) {
	var position int64
	err := repo.q.QueryRow(ctx, `
		DELETE FROM whitelist WHERE account = $1 RETURNING position
	`, account.Hex()).Scan(&position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "cannot remove from whitelist")
	}
	_, err = repo.q.Exec(ctx, `
		UPDATE whitelist SET position = $1
		WHERE position = (SELECT MAX(position) FROM whitelist) AND position > $1
	`, position)
	if err != nil {
		return false, errors.Wrap(err, "cannot compact whitelist")
	}
	return true, nil
}

func (repo *Repository) IsWhitelisted(ctx context.Context, account common.Address) (bool, error) {
	var exists bool
	err := repo.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM whitelist WHERE account = $1)
	`, account.Hex()).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "cannot check whitelist")
	}
	return exists, nil
}

func (repo *Repository) GetWhitelist(ctx context.Context, cursor, size uint64) ([]common.Address, error) {
	rows, err := repo.q.Query(ctx, `
		SELECT account FROM whitelist ORDER BY position OFFSET $1 LIMIT $2
	`, int64(cursor), int64(size))
	if err != nil {
		return nil, errors.Wrap(err, "cannot list whitelist")
	}
	return collectAddresses(rows)
}

func (repo *Repository) CountWhitelist(ctx context.Context) (uint64, error) {
	return repo.count(ctx, `SELECT count(*) FROM whitelist`)
}

// ---- events ----

func (repo *Repository) AddEvent(ctx context.Context, event entity.Event) error {
	metadata := []byte("{}")
	if event.Metadata != nil {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return errors.Wrap(err, "cannot marshal event metadata")
		}
	}
	_, err := repo.q.Exec(ctx, `
		INSERT INTO auction_events (kind, auction_id, account, amount, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, string(event.Kind), int64(event.AuctionID), event.Account.Hex(), decimals.ToNumeric(event.Amount),
		metadata, pgtype.Timestamptz{Time: event.CreatedAt.UTC(), Valid: true})
	if err != nil {
		return errors.Wrap(err, "cannot add event")
	}
	return nil
}

func (repo *Repository) GetEventsByAuction(ctx context.Context, auctionID uint64, cursor, size uint64) ([]entity.Event, error) {
	rows, err := repo.q.Query(ctx, `
		SELECT id, kind, auction_id, account, amount, metadata, created_at
		FROM auction_events WHERE auction_id = $1 ORDER BY id OFFSET $2 LIMIT $3
	`, int64(auctionID), int64(cursor), int64(size))
	if err != nil {
		return nil, errors.Wrap(err, "cannot list events")
	}
	defer rows.Close()
	events := make([]entity.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, errors.Wrap(rows.Err(), "cannot list events")
}

func (repo *Repository) count(ctx context.Context, query string, args ...any) (uint64, error) {
	var n int64
	if err := repo.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "cannot count rows")
	}
	return uint64(n), nil
}
