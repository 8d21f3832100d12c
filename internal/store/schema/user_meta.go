package schema

import "time"

// UserMeta represents the user_metas table - one metadata document per
// account, keyed by user id.
type UserMeta struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// UserID is the account name (natural key)
	UserID string `gorm:"column:user_id;not null;uniqueIndex;type:text" json:"userId"`
	// Username is the display name from the account's metadata
	Username string `gorm:"column:username;not null;type:text" json:"username"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the UserMeta model
func (UserMeta) TableName() string {
	return "user_metas"
}
