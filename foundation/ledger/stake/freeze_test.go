package stake_test

import (
	"errors"
	"testing"

	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/stake"
)

func TestFreezeSelf(t *testing.T) {
	t.Log("Given the need to freeze balance for oneself.")
	{
		c := newChain(t, true, true, map[database.AccountID]uint64{
			ownerID: 10 * coin,
		})

		fb := stake.FreezeBalance{
			Owner:        ownerID,
			Amount:       2 * coin,
			DurationDays: 3,
			Resource:     stake.Bandwidth,
		}

		if _, err := c.run(fb, genesisTime); err != nil {
			t.Fatalf("\t%s\tShould be able to freeze balance: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to freeze balance.", success)

		acct := c.db.MustAccount(ownerID)
		if acct.Balance != 8*coin {
			t.Errorf("\t%s\tShould reduce the balance by the frozen amount: got %d, exp %d.", failed, acct.Balance, 8*coin)
		} else {
			t.Logf("\t%s\tShould reduce the balance by the frozen amount.", success)
		}
		if acct.FrozenBandwidth != 2*coin {
			t.Errorf("\t%s\tShould increase frozen bandwidth by the same amount: got %d.", failed, acct.FrozenBandwidth)
		} else {
			t.Logf("\t%s\tShould increase frozen bandwidth by the same amount.", success)
		}

		rd, err := c.db.Delegation(ownerID, ownerID)
		if err != nil {
			t.Fatalf("\t%s\tShould create the self delegation record: %v", failed, err)
		}
		t.Logf("\t%s\tShould create the self delegation record.", success)

		if rd.BandwidthAmount != 2*coin {
			t.Errorf("\t%s\tShould record the frozen amount: got %d.", failed, rd.BandwidthAmount)
		}
		if exp := genesisTime + 3*dayMillis; rd.BandwidthExpiration != exp {
			t.Errorf("\t%s\tShould record the expiration window: got %d, exp %d.", failed, rd.BandwidthExpiration, exp)
		} else {
			t.Logf("\t%s\tShould record the expiration window.", success)
		}

		di, err := c.db.DelegationIndex(ownerID)
		if err != nil || !di.Contains(ownerID) {
			t.Errorf("\t%s\tShould register the pair in the delegation index: %v", failed, err)
		} else {
			t.Logf("\t%s\tShould register the pair in the delegation index.", success)
		}

		if weight := c.db.MustProperty(database.PropTotalBandwidthWeight); weight != 2 {
			t.Errorf("\t%s\tShould add the amount in whole coins to the weight: got %d.", failed, weight)
		} else {
			t.Logf("\t%s\tShould add the amount in whole coins to the weight.", success)
		}
	}
}

func TestFreezeAccumulates(t *testing.T) {
	t.Log("Given the need to freeze a second time before the first expires.")
	{
		c := newChain(t, true, true, map[database.AccountID]uint64{
			ownerID: 10 * coin,
		})

		first := stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 3, Resource: stake.Energy}
		if _, err := c.run(first, genesisTime); err != nil {
			t.Fatalf("\t%s\tShould be able to freeze the first amount: %v", failed, err)
		}

		later := genesisTime + dayMillis
		second := stake.FreezeBalance{Owner: ownerID, Amount: 3 * coin, DurationDays: 3, Resource: stake.Energy}
		if _, err := c.run(second, later); err != nil {
			t.Fatalf("\t%s\tShould be able to freeze the second amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to freeze twice.", success)

		rd, err := c.db.Delegation(ownerID, ownerID)
		if err != nil {
			t.Fatalf("\t%s\tShould keep a single delegation record: %v", failed, err)
		}

		if rd.EnergyAmount != 5*coin {
			t.Errorf("\t%s\tShould accumulate the amounts: got %d.", failed, rd.EnergyAmount)
		} else {
			t.Logf("\t%s\tShould accumulate the amounts.", success)
		}

		// Only one live expiration window is tracked. The second freeze
		// resets the unlock time for the combined total.
		if exp := later + 3*dayMillis; rd.EnergyExpiration != exp {
			t.Errorf("\t%s\tShould overwrite the expiration window: got %d, exp %d.", failed, rd.EnergyExpiration, exp)
		} else {
			t.Logf("\t%s\tShould overwrite the expiration window.", success)
		}

		if weight := c.db.MustProperty(database.PropTotalEnergyWeight); weight != 5 {
			t.Errorf("\t%s\tShould accumulate the weight: got %d.", failed, weight)
		}
	}
}

func TestFreezeDelegated(t *testing.T) {
	t.Log("Given the need to delegate frozen resources to a receiver.")
	{
		c := newChain(t, true, true, map[database.AccountID]uint64{
			ownerID:    10 * coin,
			receiverID: 1 * coin,
		})

		fb := stake.FreezeBalance{
			Owner:        ownerID,
			Amount:       4 * coin,
			DurationDays: 3,
			Resource:     stake.Energy,
			Receiver:     receiverID,
		}

		if _, err := c.run(fb, genesisTime); err != nil {
			t.Fatalf("\t%s\tShould be able to delegate resources: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to delegate resources.", success)

		owner := c.db.MustAccount(ownerID)
		if owner.Balance != 6*coin {
			t.Errorf("\t%s\tShould reduce the delegator balance: got %d.", failed, owner.Balance)
		}
		if owner.DelegatedOutAmount != 4*coin {
			t.Errorf("\t%s\tShould track the delegated out amount: got %d.", failed, owner.DelegatedOutAmount)
		} else {
			t.Logf("\t%s\tShould track the delegated out amount.", success)
		}
		if owner.FrozenEnergy != 0 {
			t.Errorf("\t%s\tShould not touch the delegator's self-frozen stake.", failed)
		}

		recv := c.db.MustAccount(receiverID)
		if recv.DelegatedEnergy != 4*coin {
			t.Errorf("\t%s\tShould credit the receiver's delegated energy: got %d.", failed, recv.DelegatedEnergy)
		} else {
			t.Logf("\t%s\tShould credit the receiver's delegated energy.", success)
		}
		if recv.Balance != 1*coin {
			t.Errorf("\t%s\tShould not touch the receiver balance: got %d.", failed, recv.Balance)
		}

		di, err := c.db.DelegationIndex(ownerID)
		if err != nil || !di.Contains(receiverID) {
			t.Errorf("\t%s\tShould index the outgoing delegation: %v", failed, err)
		} else {
			t.Logf("\t%s\tShould index the outgoing delegation.", success)
		}
	}
}

func TestFreezeReceiverIgnoredWhenDelegationDisabled(t *testing.T) {
	t.Log("Given a receiver supplied while the delegation parameter is disabled.")
	{
		c := newChain(t, false, false, map[database.AccountID]uint64{
			ownerID:    10 * coin,
			receiverID: 0,
		})

		fb := stake.FreezeBalance{
			Owner:        ownerID,
			Amount:       2 * coin,
			DurationDays: 3,
			Resource:     stake.Bandwidth,
			Receiver:     receiverID,
		}

		if _, err := c.run(fb, genesisTime); err != nil {
			t.Fatalf("\t%s\tShould accept the request: %v", failed, err)
		}

		owner := c.db.MustAccount(ownerID)
		if owner.FrozenBandwidth != 2*coin {
			t.Errorf("\t%s\tShould self-freeze instead of delegating: got %d.", failed, owner.FrozenBandwidth)
		} else {
			t.Logf("\t%s\tShould self-freeze instead of delegating.", success)
		}

		recv := c.db.MustAccount(receiverID)
		if recv.DelegatedBandwidth != 0 {
			t.Errorf("\t%s\tShould leave the receiver untouched: got %d.", failed, recv.DelegatedBandwidth)
		} else {
			t.Logf("\t%s\tShould leave the receiver untouched.", success)
		}
	}
}

func TestFreezeValidation(t *testing.T) {
	contractID := database.AccountID("0x6Fe6CF3c8fF57c58d24BfC869668F48BCbDb3BD7")

	type table struct {
		name    string
		fb      stake.FreezeBalance
		expect  error
		balance uint64
	}

	tt := []table{
		{
			name:   "malformed owner",
			fb:     stake.FreezeBalance{Owner: "not-an-address", Amount: 2 * coin, DurationDays: 3, Resource: stake.Bandwidth},
			expect: stake.ErrInvalidAddress,
		},
		{
			name:   "unknown owner",
			fb:     stake.FreezeBalance{Owner: witnessID, Amount: 2 * coin, DurationDays: 3, Resource: stake.Bandwidth},
			expect: stake.ErrAccountNotFound,
		},
		{
			name:   "below minimum amount",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: coin - 1, DurationDays: 3, Resource: stake.Bandwidth},
			expect: stake.ErrInsufficientBalance,
		},
		{
			name:    "amount exceeds balance",
			fb:      stake.FreezeBalance{Owner: ownerID, Amount: 11 * coin, DurationDays: 3, Resource: stake.Bandwidth},
			expect:  stake.ErrInsufficientBalance,
			balance: 10 * coin,
		},
		{
			name:   "duration below minimum",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 2, Resource: stake.Bandwidth},
			expect: stake.ErrInvalidDuration,
		},
		{
			name:   "duration above maximum",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 4, Resource: stake.Bandwidth},
			expect: stake.ErrInvalidDuration,
		},
		{
			name:   "invalid resource code",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 3, Resource: stake.Resource(9)},
			expect: stake.ErrInvalidResource,
		},
		{
			name:   "receiver equals owner",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 3, Resource: stake.Bandwidth, Receiver: ownerID},
			expect: stake.ErrSameAccount,
		},
		{
			name:   "receiver not on chain",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 3, Resource: stake.Bandwidth, Receiver: witnessID},
			expect: stake.ErrReceiverNotFound,
		},
		{
			name:   "delegation to contract account",
			fb:     stake.FreezeBalance{Owner: ownerID, Amount: 2 * coin, DurationDays: 3, Resource: stake.Bandwidth, Receiver: contractID},
			expect: stake.ErrDelegateToContract,
		},
	}

	t.Log("Given the need to reject invalid freeze requests.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s request.", testID, tst.name)
			{
				f := func(t *testing.T) {
					balance := tst.balance
					if balance == 0 {
						balance = 10 * coin
					}

					c := newChain(t, true, true, map[database.AccountID]uint64{
						ownerID: balance,
					})

					contract := database.NewAccount(contractID, 0)
					contract.Type = database.AccountTypeContract
					c.db.SaveAccount(contract)
					if err := c.db.Commit(); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to seed the contract account: %v", failed, testID, err)
					}

					err := tst.fb.Validate(c.db, testConfig, genesisTime)
					if !errors.Is(err, tst.expect) {
						t.Fatalf("\t%s\tTest %d:\tShould get the named validation error: got %v, exp %v", failed, testID, err, tst.expect)
					}
					t.Logf("\t%s\tTest %d:\tShould get the named validation error.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestFreezeMinimumBoundary(t *testing.T) {
	t.Log("Given the need to accept a freeze at the exact minimum amount.")
	{
		c := newChain(t, true, true, map[database.AccountID]uint64{
			ownerID: 10 * coin,
		})

		fb := stake.FreezeBalance{Owner: ownerID, Amount: coin, DurationDays: 3, Resource: stake.Bandwidth}
		if err := fb.Validate(c.db, testConfig, genesisTime); err != nil {
			t.Fatalf("\t%s\tShould accept exactly the minimum amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept exactly the minimum amount.", success)
	}
}
