// Package database provides the typed record model and store access for the
// staking ledger. A Store buffers every write issued by an operation and
// applies them to the underlying key/value store as one atomic batch, so a
// failed operation leaves no partial state behind.
package database

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/meridianchain/meridian/foundation/ledger/storage"
)

// ErrNotFound is returned when a record does not exist. It aliases the
// storage error so callers can test either package's sentinel.
var ErrNotFound = storage.ErrNotFound

// write represents a single buffered mutation. The issue order is preserved
// through to the storage batch so every node applies identical writes.
type write struct {
	key    []byte
	value  []byte
	delete bool
}

// Store provides typed access to the ledger records. Reads observe the
// buffered writes of the current operation before falling through to the
// committed state.
type Store struct {
	kv      storage.KV
	writes  []write
	overlay map[string]int
}

// NewStore constructs a store for running one or more operations against
// the specified key/value state.
func NewStore(kv storage.KV) *Store {
	return &Store{
		kv:      kv,
		overlay: make(map[string]int),
	}
}

// Commit applies all buffered writes as a single atomic batch.
func (s *Store) Commit() error {
	if len(s.writes) == 0 {
		return nil
	}

	batch := s.kv.Batch()
	for _, w := range s.writes {
		if w.delete {
			batch.Delete(w.key)
			continue
		}
		batch.Put(w.key, w.value)
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("committing %d writes: %w", len(s.writes), err)
	}

	s.Discard()
	return nil
}

// Discard drops all buffered writes.
func (s *Store) Discard() {
	s.writes = nil
	s.overlay = make(map[string]int)
}

// Pending returns the number of buffered writes. Used by the executor to
// assert validation performed zero mutation.
func (s *Store) Pending() int {
	return len(s.writes)
}

// =============================================================================
// Accounts

// Account returns the account stored under the id. Returns ErrNotFound when
// the account is not on chain.
func (s *Store) Account(id AccountID) (Account, error) {
	var acct Account
	if err := s.get(accountKey(id), &acct); err != nil {
		return Account{}, err
	}
	acct.AccountID = id
	return acct, nil
}

// MustAccount returns the account or panics. Only used for accounts whose
// existence was established by a prior validation.
func (s *Store) MustAccount(id AccountID) Account {
	acct, err := s.Account(id)
	if err != nil {
		panic(fmt.Sprintf("database: account %s must exist: %v", id, err))
	}
	return acct
}

// SaveAccount buffers the account record for the next commit.
func (s *Store) SaveAccount(acct Account) {
	s.put(accountKey(acct.AccountID), acct)
}

// ForEachAccount walks every account record in key order.
func (s *Store) ForEachAccount(fn func(acct Account) error) error {
	return s.kv.ForEach([]byte{prefixAccount}, func(key []byte, value []byte) error {
		var acct Account
		if err := rlp.DecodeBytes(value, &acct); err != nil {
			return fmt.Errorf("decoding account record: %w", err)
		}
		acct.AccountID = AccountID(key[1:])
		return fn(acct)
	})
}

// =============================================================================
// Resource delegations

// Delegation returns the delegation record for the (from, to) pair.
func (s *Store) Delegation(from AccountID, to AccountID) (ResourceDelegation, error) {
	var rd ResourceDelegation
	if err := s.get(delegationKey(from, to), &rd); err != nil {
		return ResourceDelegation{}, err
	}
	return rd, nil
}

// DelegationOrZero returns the delegation record for the pair, or a zeroed
// record when none exists yet.
func (s *Store) DelegationOrZero(from AccountID, to AccountID) (ResourceDelegation, error) {
	rd, err := s.Delegation(from, to)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ResourceDelegation{From: from, To: to}, nil
		}
		return ResourceDelegation{}, err
	}
	return rd, nil
}

// SaveDelegation buffers the delegation record for the next commit.
func (s *Store) SaveDelegation(rd ResourceDelegation) {
	s.put(delegationKey(rd.From, rd.To), rd)
}

// ForEachDelegation walks every committed delegation record in key order.
func (s *Store) ForEachDelegation(fn func(rd ResourceDelegation) error) error {
	return s.kv.ForEach([]byte{prefixDelegation}, func(key []byte, value []byte) error {
		var rd ResourceDelegation
		if err := rlp.DecodeBytes(value, &rd); err != nil {
			return fmt.Errorf("decoding delegation record: %w", err)
		}
		return fn(rd)
	})
}

// =============================================================================
// Delegation index

// DelegationIndex returns the outgoing delegation index for the account.
func (s *Store) DelegationIndex(from AccountID) (DelegationIndex, error) {
	var di DelegationIndex
	if err := s.get(delegationIndexKey(from), &di); err != nil {
		return DelegationIndex{}, err
	}
	return di, nil
}

// SaveDelegationIndex buffers the index record for the next commit.
func (s *Store) SaveDelegationIndex(di DelegationIndex) {
	s.put(delegationIndexKey(di.From), di)
}

// DeleteDelegationIndex buffers removal of the index record. Empty index
// records are never stored.
func (s *Store) DeleteDelegationIndex(from AccountID) {
	s.del(delegationIndexKey(from))
}

// =============================================================================
// Votes and witnesses

// Votes returns the votes cast by the owner account.
func (s *Store) Votes(owner AccountID) (Votes, error) {
	var v Votes
	if err := s.get(votesKey(owner), &v); err != nil {
		return Votes{}, err
	}
	return v, nil
}

// SaveVotes buffers the votes record for the next commit.
func (s *Store) SaveVotes(v Votes) {
	s.put(votesKey(v.Owner), v)
}

// DeleteVotes buffers removal of the owner's votes record.
func (s *Store) DeleteVotes(owner AccountID) {
	s.del(votesKey(owner))
}

// Witness returns the witness record for the address.
func (s *Store) Witness(address AccountID) (Witness, error) {
	var w Witness
	if err := s.get(witnessKey(address), &w); err != nil {
		return Witness{}, err
	}
	return w, nil
}

// MustWitness returns the witness or panics. A vote referencing a missing
// witness means a prior invariant was broken.
func (s *Store) MustWitness(address AccountID) Witness {
	w, err := s.Witness(address)
	if err != nil {
		panic(fmt.Sprintf("database: witness %s must exist: %v", address, err))
	}
	return w
}

// SaveWitness buffers the witness record for the next commit.
func (s *Store) SaveWitness(w Witness) {
	s.put(witnessKey(w.Address), w)
}

// ForEachWitness walks every witness record in key order.
func (s *Store) ForEachWitness(fn func(w Witness) error) error {
	return s.kv.ForEach([]byte{prefixWitness}, func(key []byte, value []byte) error {
		var w Witness
		if err := rlp.DecodeBytes(value, &w); err != nil {
			return fmt.Errorf("decoding witness record: %w", err)
		}
		return fn(w)
	})
}

// =============================================================================
// Dynamic properties and chain parameters

// Property returns the named dynamic property counter.
func (s *Store) Property(name string) (uint64, error) {
	return s.getUint(propertyKey(name))
}

// MustProperty returns the counter or panics. Properties are seeded at
// genesis; a missing one is a structural invariant violation.
func (s *Store) MustProperty(name string) uint64 {
	v, err := s.Property(name)
	if err != nil {
		panic(fmt.Sprintf("database: property %q must exist: %v", name, err))
	}
	return v
}

// SetProperty buffers the counter value for the next commit.
func (s *Store) SetProperty(name string, value uint64) {
	s.put(propertyKey(name), value)
}

// Param returns the named chain parameter.
func (s *Store) Param(name string) (uint64, error) {
	return s.getUint(parameterKey(name))
}

// MustParam returns the parameter or panics. Parameters are seeded at
// genesis; a missing one is a structural invariant violation.
func (s *Store) MustParam(name string) uint64 {
	v, err := s.Param(name)
	if err != nil {
		panic(fmt.Sprintf("database: chain parameter %q must exist: %v", name, err))
	}
	return v
}

// SetParam buffers the parameter value for the next commit.
func (s *Store) SetParam(name string, value uint64) {
	s.put(parameterKey(name), value)
}

// =============================================================================
// Reward allowances

// RewardAllowance returns the pending staking reward for the owner. An
// account with no allowance record has a zero allowance.
func (s *Store) RewardAllowance(owner AccountID) (uint64, error) {
	v, err := s.getUint(rewardAllowanceKey(owner))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

// SetRewardAllowance buffers the allowance value for the next commit.
func (s *Store) SetRewardAllowance(owner AccountID, amount uint64) {
	s.put(rewardAllowanceKey(owner), amount)
}

// =============================================================================

// get reads through the write buffer first so an operation observes its own
// mutations, then falls through to the committed state.
func (s *Store) get(key []byte, value any) error {
	var data []byte

	if idx, exists := s.overlay[string(key)]; exists {
		w := s.writes[idx]
		if w.delete {
			return ErrNotFound
		}
		data = w.value
	} else {
		var err error
		data, err = s.kv.Get(key)
		if err != nil {
			return err
		}
	}

	if err := rlp.DecodeBytes(data, value); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	return nil
}

func (s *Store) getUint(key []byte) (uint64, error) {
	var v uint64
	if err := s.get(key, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// put buffers an encoded record. Encoding these record types cannot fail
// at runtime, so an encode error is a programming bug.
func (s *Store) put(key []byte, value any) {
	data, err := rlp.EncodeToBytes(value)
	if err != nil {
		panic(fmt.Sprintf("database: encoding record for key %x: %v", key, err))
	}

	s.overlay[string(key)] = len(s.writes)
	s.writes = append(s.writes, write{key: key, value: data})
}

func (s *Store) del(key []byte) {
	s.overlay[string(key)] = len(s.writes)
	s.writes = append(s.writes, write{key: key, delete: true})
}
