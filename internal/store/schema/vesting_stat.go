package schema

import (
	"time"

	"gorm.io/datatypes"
)

// VestingStatKey is the fixed key of the single live vesting stat row.
const VestingStatKey = "global"

// VestingStat represents the vesting_stats table - the singleton document
// holding the raw global vesting stat payload (symbol and total vesting
// shares outstanding) as emitted by the chain.
type VestingStat struct {
	// Key is always VestingStatKey; a fixed primary key keeps the row unique
	Key string `gorm:"column:key;primaryKey;type:text" json:"-"`
	// Stat is the raw stat event payload
	Stat datatypes.JSON `gorm:"column:stat;not null" json:"stat"`
	// CreatedAt is the timestamp when the stat was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
	// UpdatedAt is the timestamp when the stat was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the VestingStat model
func (VestingStat) TableName() string {
	return "vesting_stats"
}
