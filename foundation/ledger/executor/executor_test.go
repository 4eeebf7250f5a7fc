package executor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/executor"
	"github.com/meridianchain/meridian/foundation/ledger/genesis"
	"github.com/meridianchain/meridian/foundation/ledger/reward"
	"github.com/meridianchain/meridian/foundation/ledger/stake"
	"github.com/meridianchain/meridian/foundation/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	ownerID   = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
	witnessID = "0xFef311483Cc040e1A89fb9bb469eeB8A70935EF8"
)

const (
	dayMillis = uint64(86_400_000)
	coin      = uint64(1_000_000)
)

var genesisDate = time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC)

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:                  genesisDate,
		ChainID:               77,
		MinFreezeDays:         3,
		MaxFreezeDays:         3,
		AllowDelegateResource: true,
		AllowConstantinople:   true,
		Balances: map[string]uint64{
			ownerID: 10 * coin,
		},
		Witnesses: map[string]genesis.Witness{
			witnessID: {URL: "https://witness.example.com"},
		},
	}
}

func newExecutor(t *testing.T) *executor.Executor {
	t.Helper()

	ex, err := executor.New(executor.Config{
		Genesis: testGenesis(),
		KV:      memory.New(),
		Settler: reward.NewController(),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the executor: %v", failed, err)
	}

	return ex
}

func TestExecutorSeedsGenesis(t *testing.T) {
	t.Log("Given the need to seed a fresh database from genesis.")
	{
		ex := newExecutor(t)

		if got := ex.BlockTime(); got != uint64(genesisDate.UnixMilli()) {
			t.Errorf("\t%s\tShould start the clock at the genesis date: got %d.", failed, got)
		} else {
			t.Logf("\t%s\tShould start the clock at the genesis date.", success)
		}

		err := ex.View(func(db *database.Store) error {
			acct, err := db.Account(database.AccountID(ownerID))
			if err != nil {
				return err
			}
			if acct.Balance != 10*coin {
				t.Errorf("\t%s\tShould seed the genesis balance: got %d.", failed, acct.Balance)
			}

			wit, err := db.Witness(database.AccountID(witnessID))
			if err != nil {
				return err
			}
			if wit.URL != "https://witness.example.com" {
				t.Errorf("\t%s\tShould seed the witness record: got %q.", failed, wit.URL)
			}

			// The witness had no genesis balance so an empty account is created.
			if _, err := db.Account(database.AccountID(witnessID)); err != nil {
				return err
			}

			if db.MustProperty(database.PropChainID) != 77 {
				t.Errorf("\t%s\tShould seed the chain id.", failed)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to view the seeded state: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to view the seeded state.", success)
	}
}

func TestExecutorRun(t *testing.T) {
	t.Log("Given the need to run a full freeze and unfreeze through the executor.")
	{
		ex := newExecutor(t)

		fb := stake.FreezeBalance{
			Owner:        database.AccountID(ownerID),
			Amount:       2 * coin,
			DurationDays: 3,
			Resource:     stake.Bandwidth,
		}
		if _, err := ex.Run(fb); err != nil {
			t.Fatalf("\t%s\tShould be able to run the freeze: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to run the freeze.", success)

		ub := stake.UnfreezeBalance{
			Owner:    database.AccountID(ownerID),
			Resource: stake.Bandwidth,
		}
		if _, err := ex.Run(ub); !errors.Is(err, stake.ErrNotYetExpired) {
			t.Fatalf("\t%s\tShould reject unfreezing before expiration: got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject unfreezing before expiration.", success)

		expire := ex.BlockTime() + 3*dayMillis
		if err := ex.SetBlockTime(expire); err != nil {
			t.Fatalf("\t%s\tShould be able to advance the clock: %v", failed, err)
		}

		receipt, err := ex.Run(ub)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to run the unfreeze: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to run the unfreeze.", success)

		if receipt.UnfrozenAmount != 2*coin {
			t.Errorf("\t%s\tShould report the unfrozen amount: got %d.", failed, receipt.UnfrozenAmount)
		}

		wa, err := ex.Audit()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to audit the weights: %v", failed, err)
		}
		if !wa.Clean() || wa.StoredBandwidth != 0 {
			t.Errorf("\t%s\tShould end with clean zero weights: %+v.", failed, wa)
		} else {
			t.Logf("\t%s\tShould end with clean zero weights.", success)
		}
	}
}

func TestExecutorRejectedLeavesState(t *testing.T) {
	t.Log("Given the need for a rejected operation to leave no trace.")
	{
		ex := newExecutor(t)

		fb := stake.FreezeBalance{
			Owner:        database.AccountID(ownerID),
			Amount:       100 * coin, // More than the balance.
			DurationDays: 3,
			Resource:     stake.Bandwidth,
		}
		if _, err := ex.Run(fb); !errors.Is(err, stake.ErrInsufficientBalance) {
			t.Fatalf("\t%s\tShould reject the oversized freeze: got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject the oversized freeze.", success)

		err := ex.View(func(db *database.Store) error {
			acct := db.MustAccount(database.AccountID(ownerID))
			if acct.Balance != 10*coin || acct.FrozenBandwidth != 0 {
				t.Errorf("\t%s\tShould leave the account untouched: %+v.", failed, acct)
			} else {
				t.Logf("\t%s\tShould leave the account untouched.", success)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to view the state: %v", failed, err)
		}
	}
}

func TestExecutorBlockTime(t *testing.T) {
	t.Log("Given the need for a monotonic, persistent block clock.")
	{
		kv := memory.New()

		ex, err := executor.New(executor.Config{
			Genesis: testGenesis(),
			KV:      kv,
			Settler: reward.NewController(),
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the executor: %v", failed, err)
		}

		start := ex.BlockTime()

		if err := ex.SetBlockTime(start - 1); err == nil {
			t.Errorf("\t%s\tShould reject moving the clock backwards.", failed)
		} else {
			t.Logf("\t%s\tShould reject moving the clock backwards.", success)
		}

		if err := ex.SetBlockTime(start + dayMillis); err != nil {
			t.Fatalf("\t%s\tShould be able to advance the clock: %v", failed, err)
		}

		// A new executor over the same storage resumes at the persisted time
		// and does not reseed genesis.
		ex2, err := executor.New(executor.Config{
			Genesis: testGenesis(),
			KV:      kv,
			Settler: reward.NewController(),
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to reopen the executor: %v", failed, err)
		}

		if got := ex2.BlockTime(); got != start+dayMillis {
			t.Errorf("\t%s\tShould resume at the persisted block time: got %d.", failed, got)
		} else {
			t.Logf("\t%s\tShould resume at the persisted block time.", success)
		}
	}
}
