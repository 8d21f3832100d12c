package schema

import "time"

// VestingBalance represents the vesting_balances table - per-account vesting
// share amounts, keyed by account name. All three quantities are asset
// strings in the share unit, which carries a fixed scale of 6.
type VestingBalance struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Account is the account name (natural key)
	Account string `gorm:"column:account;not null;uniqueIndex;type:text" json:"account"`
	// Vesting is the account's own vesting shares
	Vesting string `gorm:"column:vesting;not null;type:text" json:"vesting"`
	// Delegated is the amount of shares delegated to others
	Delegated string `gorm:"column:delegated;not null;type:text" json:"delegated"`
	// Received is the amount of shares received from others
	Received string `gorm:"column:received;not null;type:text" json:"received"`
	// CreatedAt is the timestamp when this balance was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the VestingBalance model
func (VestingBalance) TableName() string {
	return "vesting_balances"
}
