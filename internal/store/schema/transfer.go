package schema

import "time"

// Transfer represents the transfers table - an append-only record of token
// transfers between accounts. Rows are immutable once written.
type Transfer struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// TrxID is the originating transaction id
	TrxID string `gorm:"column:trx_id;not null;type:text;index" json:"trxId"`
	// Block is the block number the transaction was included in
	Block uint64 `gorm:"column:block;not null" json:"block"`
	// Timestamp is the block time of the transaction
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz" json:"timestamp"`
	// Sender is the account the quantity was transferred from
	Sender string `gorm:"column:sender;not null;type:text;index" json:"sender"`
	// Receiver is the account the quantity was transferred to
	Receiver string `gorm:"column:receiver;not null;type:text;index" json:"receiver"`
	// Quantity is the transferred amount as a canonical asset string
	Quantity string `gorm:"column:quantity;not null;type:text" json:"quantity"`
	// Memo is the free-form transfer memo
	Memo string `gorm:"column:memo;type:text" json:"memo"`
	// CreatedAt is the timestamp when this record was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz" json:"-"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}
