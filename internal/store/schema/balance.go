package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Balance represents the balances table - the per-account list of liquid
// token balances and pending payments, keyed by account name.
//
// Balances holds at most one asset string per symbol; the dispatcher replaces
// an entry in place when a balance event carries a symbol already present.
type Balance struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Name is the account name (natural key)
	Name string `gorm:"column:name;not null;uniqueIndex;type:text" json:"name"`
	// Balances is the ordered list of asset strings, one per symbol
	Balances datatypes.JSONSlice[string] `gorm:"column:balances" json:"balances"`
	// Payments is the list of pending payment asset strings
	Payments datatypes.JSONSlice[string] `gorm:"column:payments" json:"payments"`
	// CreatedAt is the timestamp when this balance was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
