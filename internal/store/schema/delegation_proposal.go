package schema

import (
	"time"

	"gorm.io/datatypes"
)

// DelegateVestingProposal represents the delegate_vesting_proposals table -
// pending vesting delegation proposals. Rows are created by an out-of-scope
// collaborator; this service only queries them.
type DelegateVestingProposal struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// ProposalID is the chain-level proposal identifier (natural key)
	ProposalID string `gorm:"column:proposal_id;not null;uniqueIndex;type:text" json:"proposalId"`
	// Proposer is the account that created the proposal
	Proposer string `gorm:"column:proposer;not null;type:text" json:"proposer"`
	// UserID is the delegation recipient
	UserID string `gorm:"column:user_id;not null;type:text;index" json:"userId"`
	// ToUserID is the account the proposal is addressed to
	ToUserID string `gorm:"column:to_user_id;not null;type:text;index" json:"toUserId"`
	// Expiration is when the proposal stops being actionable
	Expiration time.Time `gorm:"column:expiration;not null;type:timestamptz;index" json:"expiration"`
	// IsSignedByAuthor reports whether the proposal author has signed it
	IsSignedByAuthor bool `gorm:"column:is_signed_by_author;not null;default:false" json:"isSignedByAuthor"`
	// CommunityID scopes the proposal to a community
	CommunityID string `gorm:"column:community_id;not null;type:text" json:"communityId"`
	// Data is the raw proposal payload
	Data datatypes.JSON `gorm:"column:data" json:"data"`
}

// TableName specifies the table name for the DelegateVestingProposal model
func (DelegateVestingProposal) TableName() string {
	return "delegate_vesting_proposals"
}
