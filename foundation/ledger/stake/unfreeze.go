package stake

import (
	"errors"
	"fmt"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

// UnfreezeBalance unlocks previously frozen stake once its expiration
// window has passed. Without a receiver it unlocks the owner's self-frozen
// stake; with a receiver it reclaims stake previously delegated to that
// account. Any successful unfreeze settles pending rewards first and
// invalidates all of the owner's votes.
type UnfreezeBalance struct {
	Owner    database.AccountID
	Resource Resource
	Receiver database.AccountID
}

// Name returns the operation name for reporting.
func (ub UnfreezeBalance) Name() string {
	return "unfreeze-balance"
}

// Validate performs all business rule checks against the committed state.
// It performs zero mutation.
func (ub UnfreezeBalance) Validate(db *database.Store, cfg Config, now uint64) error {
	if !ub.Owner.IsAccountID() {
		return fmt.Errorf("%w: owner %q", ErrInvalidAddress, ub.Owner)
	}

	acct, err := db.Account(ub.Owner)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("querying owner account: %w", err)
	}

	if !ub.Resource.Valid() {
		return ErrInvalidResource
	}

	if ub.Receiver != "" && delegationEnabled(db) {
		if ub.Receiver == ub.Owner {
			return ErrSameAccount
		}
		if !ub.Receiver.IsAccountID() {
			return fmt.Errorf("%w: receiver %q", ErrInvalidAddress, ub.Receiver)
		}

		if _, err := db.Account(ub.Receiver); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return ErrReceiverNotFound
			}
			return fmt.Errorf("querying receiver account: %w", err)
		}

		rd, err := db.DelegationOrZero(ub.Owner, ub.Receiver)
		if err != nil {
			return fmt.Errorf("querying delegation record: %w", err)
		}

		amount, expiration := delegationFor(rd, ub.Resource)
		if amount == 0 {
			return ErrNothingDelegated
		}
		if expiration > now {
			return ErrNotYetExpired
		}

		return nil
	}

	// A missing self-delegation record is treated as all zero. The
	// expiration only binds while there is frozen stake of this type.
	rd, err := db.DelegationOrZero(ub.Owner, ub.Owner)
	if err != nil {
		return fmt.Errorf("querying delegation record: %w", err)
	}

	var frozen uint64
	switch ub.Resource {
	case Energy:
		frozen = acct.FrozenEnergy
	default:
		frozen = acct.FrozenBandwidth
	}

	if frozen > 0 {
		if _, expiration := delegationFor(rd, ub.Resource); expiration > now {
			return ErrNotYetExpired
		}
	}

	return nil
}

// Execute unlocks the stake. Pending rewards are settled before any
// balance is touched because reward accrual is computed from the
// pre-unfreeze frozen state. The owner account record is persisted last.
func (ub UnfreezeBalance) Execute(db *database.Store, cfg Config, now uint64, settler Settler, ev EventHandler) (Receipt, error) {
	if err := settler.WithdrawReward(db, ub.Owner); err != nil {
		return Receipt{}, fmt.Errorf("withdrawing reward: %w", err)
	}

	// Load the owner after reward settlement so the credited balance is
	// observed.
	acct := db.MustAccount(ub.Owner)

	var unfrozen uint64
	var err error

	if ub.Receiver != "" && delegationEnabled(db) {
		unfrozen, acct, err = ub.reclaimDelegated(db, acct)
	} else {
		unfrozen, acct, err = ub.unfreezeSelf(db, acct)
	}
	if err != nil {
		return Receipt{}, err
	}

	weight := db.MustProperty(ub.Resource.WeightProperty())
	db.SetProperty(ub.Resource.WeightProperty(), mustSub(weight, unfrozen/UnitsPerCoin, "total weight"))

	if err := clearVotes(db, ub.Owner); err != nil {
		return Receipt{}, err
	}

	// The owner account is persisted after all dependent records so a read
	// during processing never observes updated resource fields with stale
	// delegation, weight, or vote records.
	db.SaveAccount(acct)

	ev("stake: unfreeze: owner[%s] receiver[%s] resource[%s] amount[%d]", ub.Owner, ub.Receiver, ub.Resource, unfrozen)
	return Receipt{UnfrozenAmount: unfrozen}, nil
}

// unfreezeSelf restores the owner's self-frozen stake of the targeted
// resource to its balance. The zeroed delegation record is persisted; the
// index entry is only removed once both resource types are zero.
func (ub UnfreezeBalance) unfreezeSelf(db *database.Store, acct database.Account) (uint64, database.Account, error) {
	rd, err := db.DelegationOrZero(ub.Owner, ub.Owner)
	if err != nil {
		return 0, acct, fmt.Errorf("querying delegation record: %w", err)
	}

	unfrozen, _ := delegationFor(rd, ub.Resource)

	acct.Balance, err = safeAdd(acct.Balance, unfrozen)
	if err != nil {
		return 0, acct, err
	}

	setDelegationFor(&rd, ub.Resource, 0, 0)
	switch ub.Resource {
	case Energy:
		acct.FrozenEnergy = 0
	default:
		acct.FrozenBandwidth = 0
	}

	db.SaveDelegation(rd)

	if rd.IsZero() {
		if err := removeFromDelegationIndex(db, ub.Owner, ub.Owner); err != nil {
			return 0, acct, err
		}
	}

	return unfrozen, acct, nil
}

// reclaimDelegated reverses a delegation: the receiver loses the delegated
// resource capacity and the owner gets its balance back. The receiver
// account is persisted here; the owner account is persisted last by the
// caller.
func (ub UnfreezeBalance) reclaimDelegated(db *database.Store, acct database.Account) (uint64, database.Account, error) {
	rd, err := db.DelegationOrZero(ub.Owner, ub.Receiver)
	if err != nil {
		return 0, acct, fmt.Errorf("querying delegation record: %w", err)
	}

	unfrozen, _ := delegationFor(rd, ub.Resource)

	setDelegationFor(&rd, ub.Resource, 0, 0)
	db.SaveDelegation(rd)

	if rd.IsZero() {
		if err := removeFromDelegationIndex(db, ub.Owner, ub.Receiver); err != nil {
			return 0, acct, err
		}
	}

	recv := db.MustAccount(ub.Receiver)
	switch ub.Resource {
	case Energy:
		recv.DelegatedEnergy = mustSub(recv.DelegatedEnergy, unfrozen, "receiver delegated energy")
	default:
		recv.DelegatedBandwidth = mustSub(recv.DelegatedBandwidth, unfrozen, "receiver delegated bandwidth")
	}
	db.SaveAccount(recv)

	acct.DelegatedOutAmount = mustSub(acct.DelegatedOutAmount, unfrozen, "owner delegated out amount")
	acct.Balance, err = safeAdd(acct.Balance, unfrozen)
	if err != nil {
		return 0, acct, err
	}

	return unfrozen, acct, nil
}

// clearVotes zeroes both sides of the owner's voting state: every voted
// witness tally is decremented and the votes record is deleted entirely.
// Freeing either resource type invalidates all of an account's votes.
func clearVotes(db *database.Store, owner database.AccountID) error {
	votes, err := db.Votes(owner)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("querying votes: %w", err)
	}

	for _, vote := range votes.Votes {
		wit := db.MustWitness(vote.Witness)
		wit.VoteCount = mustSub(wit.VoteCount, vote.Count, "witness vote count")
		db.SaveWitness(wit)
	}

	db.DeleteVotes(owner)
	return nil
}
