package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/golos-tools/wallet-indexer/internal/store/schema"
)

// DelegationProposalQuery selects pending delegation proposals addressed to
// one account, scoped to (or away from) a community id.
type DelegationProposalQuery struct {
	// ToUserID is the account the proposal must be addressed to
	ToUserID string
	// After excludes proposals whose expiration is not strictly later
	After time.Time
	// CommunityID is the community the scope condition compares against
	CommunityID string
	// CommunityEquals selects community_id = CommunityID when true,
	// community_id <> CommunityID when false
	CommunityEquals bool
}

// DelegationProposalRow is one proposal joined with the recipient's metadata.
// Username is nil when no user_metas row matches the recipient.
type DelegationProposalRow struct {
	Proposer   string         `json:"proposer"`
	ProposalID string         `json:"proposalId"`
	Expiration time.Time      `json:"expiration"`
	UserID     string         `json:"userId"`
	Data       datatypes.JSON `json:"data"`
	Username   *string        `json:"username,omitempty"`
}

// Store defines the ledger persistence operations. Lookups return (nil, nil)
// when no document matches the natural key; Save methods are idempotent
// natural-key upserts.
type Store interface {
	// CreateTransfer appends an immutable transfer record
	CreateTransfer(ctx context.Context, transfer *schema.Transfer) error
	// CreateVestingChange appends an immutable vesting change audit record
	CreateVestingChange(ctx context.Context, change *schema.VestingChange) error

	// GetBalance retrieves an account's balance document by account name
	GetBalance(ctx context.Context, name string) (*schema.Balance, error)
	// SaveBalance upserts a balance document by account name
	SaveBalance(ctx context.Context, balance *schema.Balance) error

	// GetToken retrieves a token by its currency symbol
	GetToken(ctx context.Context, sym string) (*schema.Token, error)
	// SaveToken upserts a token by its currency symbol
	SaveToken(ctx context.Context, token *schema.Token) error
	// ListTokenSymbols returns the symbols of all known tokens
	ListTokenSymbols(ctx context.Context) ([]string, error)

	// GetVestingStat retrieves the singleton vesting stat document
	GetVestingStat(ctx context.Context) (*schema.VestingStat, error)
	// SaveVestingStat upserts the singleton vesting stat document
	SaveVestingStat(ctx context.Context, stat *schema.VestingStat) error

	// GetVestingBalance retrieves an account's vesting balance
	GetVestingBalance(ctx context.Context, account string) (*schema.VestingBalance, error)
	// SaveVestingBalance upserts a vesting balance by account name
	SaveVestingBalance(ctx context.Context, balance *schema.VestingBalance) error

	// GetUserMeta retrieves an account's metadata by user id
	GetUserMeta(ctx context.Context, userID string) (*schema.UserMeta, error)
	// SaveUserMeta upserts account metadata by user id
	SaveUserMeta(ctx context.Context, meta *schema.UserMeta) error

	// GetWithdrawal retrieves the withdrawal schedule for an owner account
	GetWithdrawal(ctx context.Context, owner string) (*schema.Withdrawal, error)

	// ListDelegationProposals returns pending proposals matching the query,
	// ascending by expiration, left-joined with the recipient's metadata
	ListDelegationProposals(ctx context.Context, query DelegationProposalQuery) ([]DelegationProposalRow, error)
}
