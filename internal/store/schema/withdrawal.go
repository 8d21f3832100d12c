package schema

import "time"

// Withdrawal represents the withdrawals table - the per-owner vesting
// withdrawal schedule. Rows are written by an out-of-scope collaborator;
// this service only reads them. NextPayout is advanced externally.
type Withdrawal struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Owner is the withdrawing account (natural key)
	Owner string `gorm:"column:owner;not null;uniqueIndex;type:text" json:"owner"`
	// Quantity is the per-payout amount in the share unit
	Quantity string `gorm:"column:quantity;not null;type:text" json:"quantity"`
	// ToWithdraw is the total remaining amount in the share unit
	ToWithdraw string `gorm:"column:to_withdraw;not null;type:text" json:"to_withdraw"`
	// RemainingPayments is the number of payouts left
	RemainingPayments int `gorm:"column:remaining_payments;not null" json:"remaining_payments"`
	// NextPayout is the stored timestamp of the upcoming payout
	NextPayout time.Time `gorm:"column:next_payout;not null;type:timestamptz" json:"next_payout"`
}

// TableName specifies the table name for the Withdrawal model
func (Withdrawal) TableName() string {
	return "withdrawals"
}
