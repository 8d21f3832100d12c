package schema

import "time"

// Token represents the tokens table - one document per currency symbol.
type Token struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Sym is the currency symbol (natural key)
	Sym string `gorm:"column:sym;not null;uniqueIndex;type:text" json:"sym"`
	// Issuer is the account that issued the token
	Issuer string `gorm:"column:issuer;not null;type:text" json:"issuer"`
	// Supply is the current supply as a canonical asset string
	Supply string `gorm:"column:supply;not null;type:text" json:"supply"`
	// MaxSupply is the maximum supply as a canonical asset string
	MaxSupply string `gorm:"column:max_supply;not null;type:text" json:"max_supply"`
	// CreatedAt is the timestamp when this token was first seen
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
	// UpdatedAt is the timestamp when this token was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
