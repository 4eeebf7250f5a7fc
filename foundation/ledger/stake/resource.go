package stake

import (
	"errors"
	"fmt"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

// Resource represents one of the two resource types a frozen stake
// generates. The numeric codes are part of the wire contract.
type Resource uint8

// Set of valid resource codes.
const (
	Bandwidth Resource = 0
	Energy    Resource = 1
)

// Valid reports whether the code is one of the two known resources.
func (r Resource) Valid() bool {
	return r == Bandwidth || r == Energy
}

// String implements the fmt.Stringer interface.
func (r Resource) String() string {
	switch r {
	case Bandwidth:
		return "bandwidth"
	case Energy:
		return "energy"
	}
	return fmt.Sprintf("resource(%d)", uint8(r))
}

// WeightProperty returns the dynamic property name of the global weight
// counter for this resource.
func (r Resource) WeightProperty() string {
	if r == Energy {
		return database.PropTotalEnergyWeight
	}
	return database.PropTotalBandwidthWeight
}

// ParseResource converts a wire name to a resource code.
func ParseResource(name string) (Resource, error) {
	switch name {
	case "bandwidth":
		return Bandwidth, nil
	case "energy":
		return Energy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidResource, name)
}

// =============================================================================

// delegationFor reads the amount and expiration of the delegation record
// for the specified resource.
func delegationFor(rd database.ResourceDelegation, r Resource) (amount uint64, expiration uint64) {
	if r == Energy {
		return rd.EnergyAmount, rd.EnergyExpiration
	}
	return rd.BandwidthAmount, rd.BandwidthExpiration
}

// setDelegationFor writes the amount and expiration of the delegation
// record for the specified resource.
func setDelegationFor(rd *database.ResourceDelegation, r Resource, amount uint64, expiration uint64) {
	if r == Energy {
		rd.EnergyAmount = amount
		rd.EnergyExpiration = expiration
		return
	}
	rd.BandwidthAmount = amount
	rd.BandwidthExpiration = expiration
}

// =============================================================================

// upsertDelegation performs the record, weight, and index updates shared by
// the self-freeze and delegate paths: add the amount to the (from, to)
// record, overwrite the expiration window, bump the global weight counter,
// and register the pair in the delegation index.
func upsertDelegation(db *database.Store, from database.AccountID, to database.AccountID, res Resource, amount uint64, expireTime uint64) error {
	rd, err := db.DelegationOrZero(from, to)
	if err != nil {
		return fmt.Errorf("querying delegation record: %w", err)
	}

	current, _ := delegationFor(rd, res)
	total, err := safeAdd(current, amount)
	if err != nil {
		return err
	}
	setDelegationFor(&rd, res, total, expireTime)
	db.SaveDelegation(rd)

	// The counter holds the sum of each record's whole-coin value, so the
	// increment is the record's change in whole coins. Unfreeze subtracts
	// the record's full whole-coin value, which this keeps covered even
	// when individual freeze amounts are not coin multiples.
	weight := db.MustProperty(res.WeightProperty())
	weight, err = safeAdd(weight, total/UnitsPerCoin-current/UnitsPerCoin)
	if err != nil {
		return err
	}
	db.SetProperty(res.WeightProperty(), weight)

	return addToDelegationIndex(db, from, to)
}

// freezeResource locks amount of the owner's balance into self-frozen
// stake for the specified resource.
func freezeResource(db *database.Store, owner database.AccountID, res Resource, amount uint64, expireTime uint64) error {
	if err := upsertDelegation(db, owner, owner, res, amount, expireTime); err != nil {
		return err
	}

	acct := db.MustAccount(owner)

	var err error
	switch res {
	case Energy:
		acct.FrozenEnergy, err = safeAdd(acct.FrozenEnergy, amount)
	default:
		acct.FrozenBandwidth, err = safeAdd(acct.FrozenBandwidth, amount)
	}
	if err != nil {
		return err
	}

	acct.Balance = mustSub(acct.Balance, amount, "owner balance")
	db.SaveAccount(acct)

	return nil
}

// delegateResource locks amount of the from account's balance and grants
// the resulting resource capacity to the to account.
func delegateResource(db *database.Store, from database.AccountID, to database.AccountID, res Resource, amount uint64, expireTime uint64) error {
	if err := upsertDelegation(db, from, to, res, amount, expireTime); err != nil {
		return err
	}

	toAcct := db.MustAccount(to)

	var err error
	switch res {
	case Energy:
		toAcct.DelegatedEnergy, err = safeAdd(toAcct.DelegatedEnergy, amount)
	default:
		toAcct.DelegatedBandwidth, err = safeAdd(toAcct.DelegatedBandwidth, amount)
	}
	if err != nil {
		return err
	}
	db.SaveAccount(toAcct)

	fromAcct := db.MustAccount(from)
	fromAcct.DelegatedOutAmount, err = safeAdd(fromAcct.DelegatedOutAmount, amount)
	if err != nil {
		return err
	}
	fromAcct.Balance = mustSub(fromAcct.Balance, amount, "delegator balance")
	db.SaveAccount(fromAcct)

	return nil
}

// =============================================================================

// addToDelegationIndex registers (from, to) in the delegation index. The
// index stays duplicate free and is only written when it changed.
func addToDelegationIndex(db *database.Store, from database.AccountID, to database.AccountID) error {
	di, err := db.DelegationIndex(from)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("querying delegation index: %w", err)
		}
		di = database.DelegationIndex{From: from}
	}

	if di.Contains(to) {
		return nil
	}

	di.To = append(di.To, to)
	db.SaveDelegationIndex(di)

	return nil
}

// removeFromDelegationIndex drops to from the index of from. The record is
// deleted entirely once the set becomes empty.
func removeFromDelegationIndex(db *database.Store, from database.AccountID, to database.AccountID) error {
	di, err := db.DelegationIndex(from)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("querying delegation index: %w", err)
		}
		di = database.DelegationIndex{From: from}
	}

	filtered := di.To[:0:0]
	for _, id := range di.To {
		if id != to {
			filtered = append(filtered, id)
		}
	}

	if len(filtered) == 0 {
		db.DeleteDelegationIndex(from)
		return nil
	}

	di.To = filtered
	db.SaveDelegationIndex(di)

	return nil
}
