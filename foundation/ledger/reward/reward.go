// Package reward maintains the staking reward settlement boundary consumed
// by the unfreeze operation. The accrual algorithm itself lives with the
// governance subsystem; this package only moves an account's pending
// allowance into its balance.
package reward

import (
	"fmt"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

// Controller settles pending staking rewards against the ledger.
type Controller struct{}

// NewController constructs a reward controller for use.
func NewController() Controller {
	return Controller{}
}

// WithdrawReward credits any pending allowance to the owner's balance and
// zeroes the allowance. Both writes are buffered before returning so the
// unfreeze that follows observes the credited balance.
func (c Controller) WithdrawReward(db *database.Store, owner database.AccountID) error {
	allowance, err := db.RewardAllowance(owner)
	if err != nil {
		return fmt.Errorf("querying reward allowance: %w", err)
	}
	if allowance == 0 {
		return nil
	}

	acct, err := db.Account(owner)
	if err != nil {
		return fmt.Errorf("querying owner account: %w", err)
	}

	balance := acct.Balance + allowance
	if balance < acct.Balance {
		return fmt.Errorf("reward credit overflows balance for %s", owner)
	}
	acct.Balance = balance

	db.SetRewardAllowance(owner, 0)
	db.SaveAccount(acct)

	return nil
}

// Credit adds to the owner's pending allowance. Called by governance when
// rewards accrue, and by tests to arrange settlement scenarios.
func (c Controller) Credit(db *database.Store, owner database.AccountID, amount uint64) error {
	allowance, err := db.RewardAllowance(owner)
	if err != nil {
		return fmt.Errorf("querying reward allowance: %w", err)
	}

	total := allowance + amount
	if total < allowance {
		return fmt.Errorf("reward credit overflows allowance for %s", owner)
	}

	db.SetRewardAllowance(owner, total)
	return nil
}
