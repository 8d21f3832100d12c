package schema

import "time"

// VestingChange represents the vesting_changes table - an append-only audit
// log of vesting share changes. Rows are immutable once written.
type VestingChange struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// TrxID is the originating transaction id
	TrxID string `gorm:"column:trx_id;not null;type:text;index" json:"trxId"`
	// Block is the block number the transaction was included in
	Block uint64 `gorm:"column:block;not null" json:"block"`
	// Timestamp is the block time of the transaction
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz" json:"timestamp"`
	// Who is the account whose vesting changed
	Who string `gorm:"column:who;not null;type:text;index" json:"who"`
	// Diff is the change amount as an asset string
	Diff string `gorm:"column:diff;not null;type:text" json:"diff"`
	// CreatedAt is the timestamp when this record was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the VestingChange model
func (VestingChange) TableName() string {
	return "vesting_changes"
}
