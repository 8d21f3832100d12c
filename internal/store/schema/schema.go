package schema

import "gorm.io/gorm"

// Migrate creates or updates all ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Transfer{},
		&Balance{},
		&Token{},
		&VestingStat{},
		&VestingBalance{},
		&VestingChange{},
		&UserMeta{},
		&Withdrawal{},
		&DelegateVestingProposal{},
	)
}
