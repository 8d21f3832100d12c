package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/golos-tools/wallet-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateTransfer appends an immutable transfer record
func (s *pgStore) CreateTransfer(ctx context.Context, transfer *schema.Transfer) error {
	if err := s.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// CreateVestingChange appends an immutable vesting change audit record
func (s *pgStore) CreateVestingChange(ctx context.Context, change *schema.VestingChange) error {
	if err := s.db.WithContext(ctx).Create(change).Error; err != nil {
		return fmt.Errorf("failed to create vesting change: %w", err)
	}
	return nil
}

// GetBalance retrieves an account's balance document by account name
func (s *pgStore) GetBalance(ctx context.Context, name string) (*schema.Balance, error) {
	var balance schema.Balance
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// SaveBalance upserts a balance document by account name
func (s *pgStore) SaveBalance(ctx context.Context, balance *schema.Balance) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"balances", "payments", "updated_at"}),
	}).Create(balance).Error
	if err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

// GetToken retrieves a token by its currency symbol
func (s *pgStore) GetToken(ctx context.Context, sym string) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).Where("sym = ?", sym).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

// SaveToken upserts a token by its currency symbol
func (s *pgStore) SaveToken(ctx context.Context, token *schema.Token) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sym"}},
		DoUpdates: clause.AssignmentColumns([]string{"issuer", "supply", "max_supply", "updated_at"}),
	}).Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// ListTokenSymbols returns the symbols of all known tokens
func (s *pgStore) ListTokenSymbols(ctx context.Context) ([]string, error) {
	var syms []string
	err := s.db.WithContext(ctx).Model(&schema.Token{}).Pluck("sym", &syms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list token symbols: %w", err)
	}
	return syms, nil
}

// GetVestingStat retrieves the singleton vesting stat document
func (s *pgStore) GetVestingStat(ctx context.Context) (*schema.VestingStat, error) {
	var stat schema.VestingStat
	err := s.db.WithContext(ctx).Where("key = ?", schema.VestingStatKey).First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vesting stat: %w", err)
	}
	return &stat, nil
}

// SaveVestingStat upserts the singleton vesting stat document
func (s *pgStore) SaveVestingStat(ctx context.Context, stat *schema.VestingStat) error {
	stat.Key = schema.VestingStatKey
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"stat", "updated_at"}),
	}).Create(stat).Error
	if err != nil {
		return fmt.Errorf("failed to save vesting stat: %w", err)
	}
	return nil
}

// GetVestingBalance retrieves an account's vesting balance
func (s *pgStore) GetVestingBalance(ctx context.Context, account string) (*schema.VestingBalance, error) {
	var balance schema.VestingBalance
	err := s.db.WithContext(ctx).Where("account = ?", account).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vesting balance: %w", err)
	}
	return &balance, nil
}

// SaveVestingBalance upserts a vesting balance by account name
func (s *pgStore) SaveVestingBalance(ctx context.Context, balance *schema.VestingBalance) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"vesting", "delegated", "received", "updated_at"}),
	}).Create(balance).Error
	if err != nil {
		return fmt.Errorf("failed to save vesting balance: %w", err)
	}
	return nil
}

// GetUserMeta retrieves an account's metadata by user id
func (s *pgStore) GetUserMeta(ctx context.Context, userID string) (*schema.UserMeta, error) {
	var meta schema.UserMeta
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user meta: %w", err)
	}
	return &meta, nil
}

// SaveUserMeta upserts account metadata by user id
func (s *pgStore) SaveUserMeta(ctx context.Context, meta *schema.UserMeta) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
	}).Create(meta).Error
	if err != nil {
		return fmt.Errorf("failed to save user meta: %w", err)
	}
	return nil
}

// GetWithdrawal retrieves the withdrawal schedule for an owner account
func (s *pgStore) GetWithdrawal(ctx context.Context, owner string) (*schema.Withdrawal, error) {
	var withdrawal schema.Withdrawal
	err := s.db.WithContext(ctx).Where("owner = ?", owner).First(&withdrawal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return &withdrawal, nil
}

// ListDelegationProposals returns pending proposals matching the query,
// ascending by expiration, left-joined with the recipient's metadata
func (s *pgStore) ListDelegationProposals(ctx context.Context, query DelegationProposalQuery) ([]DelegationProposalRow, error) {
	q := s.db.WithContext(ctx).
		Table("delegate_vesting_proposals AS p").
		Select("p.proposer, p.proposal_id, p.expiration, p.user_id, p.data, m.username").
		Joins("LEFT JOIN user_metas m ON m.user_id = p.user_id").
		Where("p.to_user_id = ? AND p.expiration > ? AND p.is_signed_by_author = ?",
			query.ToUserID, query.After, true)

	if query.CommunityEquals {
		q = q.Where("p.community_id = ?", query.CommunityID)
	} else {
		q = q.Where("p.community_id <> ?", query.CommunityID)
	}

	var rows []DelegationProposalRow
	if err := q.Order("p.expiration ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list delegation proposals: %w", err)
	}
	return rows, nil
}
