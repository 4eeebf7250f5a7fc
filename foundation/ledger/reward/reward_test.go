package reward_test

import (
	"testing"

	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/reward"
	"github.com/meridianchain/meridian/foundation/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const ownerID = database.AccountID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")

func TestWithdrawReward(t *testing.T) {
	t.Log("Given the need to settle a pending allowance into the balance.")
	{
		db := database.NewStore(memory.New())
		db.SaveAccount(database.NewAccount(ownerID, 1000))
		if err := db.Commit(); err != nil {
			t.Fatalf("\t%s\tShould be able to seed the account: %v", failed, err)
		}

		ctrl := reward.NewController()

		if err := ctrl.Credit(db, ownerID, 250); err != nil {
			t.Fatalf("\t%s\tShould be able to credit an allowance: %v", failed, err)
		}
		if err := ctrl.Credit(db, ownerID, 50); err != nil {
			t.Fatalf("\t%s\tShould be able to credit again: %v", failed, err)
		}

		if err := ctrl.WithdrawReward(db, ownerID); err != nil {
			t.Fatalf("\t%s\tShould be able to withdraw the reward: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to withdraw the reward.", success)

		acct, err := db.Account(ownerID)
		if err != nil {
			t.Fatalf("\t%s\tShould read the account back: %v", failed, err)
		}
		if acct.Balance != 1300 {
			t.Errorf("\t%s\tShould credit the accumulated allowance: got %d.", failed, acct.Balance)
		} else {
			t.Logf("\t%s\tShould credit the accumulated allowance.", success)
		}

		allowance, err := db.RewardAllowance(ownerID)
		if err != nil || allowance != 0 {
			t.Errorf("\t%s\tShould zero the allowance: got %d, %v.", failed, allowance, err)
		} else {
			t.Logf("\t%s\tShould zero the allowance.", success)
		}
	}
}

func TestWithdrawNoAllowance(t *testing.T) {
	t.Log("Given the need for settlement with no pending reward to be a no-op.")
	{
		db := database.NewStore(memory.New())
		db.SaveAccount(database.NewAccount(ownerID, 1000))
		if err := db.Commit(); err != nil {
			t.Fatalf("\t%s\tShould be able to seed the account: %v", failed, err)
		}

		ctrl := reward.NewController()
		if err := ctrl.WithdrawReward(db, ownerID); err != nil {
			t.Fatalf("\t%s\tShould succeed with no allowance: %v", failed, err)
		}
		t.Logf("\t%s\tShould succeed with no allowance.", success)

		if db.Pending() != 0 {
			t.Errorf("\t%s\tShould issue no writes: got %d.", failed, db.Pending())
		} else {
			t.Logf("\t%s\tShould issue no writes.", success)
		}
	}
}
