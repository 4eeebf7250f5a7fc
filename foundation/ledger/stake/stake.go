// Package stake implements the resource staking and delegation state
// machine: locking balance into frozen bandwidth or energy, delegating the
// resulting capacity to another account, and unlocking it again. Every
// mutation must be byte identical across nodes, so records are read and
// written in a fixed order and all business rules are checked before the
// first write is issued.
package stake

import (
	"errors"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

// Staking constants. Amounts are in the smallest currency unit; the global
// weight counters are kept in whole coins.
const (
	MinFreezeAmount = 1_000_000
	UnitsPerCoin    = 1_000_000

	dayMillis = 86_400_000
)

// Set of validation errors. All are surfaced to the caller with enough
// detail to report to a client and none are retried.
var (
	ErrInvalidAddress      = errors.New("invalid address")
	ErrAccountNotFound     = errors.New("owner account is not on chain")
	ErrReceiverNotFound    = errors.New("receiver account is not on chain")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidDuration     = errors.New("frozen duration out of range")
	ErrInvalidResource     = errors.New("resource code is invalid, possible values: [bandwidth, energy]")
	ErrSameAccount         = errors.New("the owner and receiver address cannot be the same")
	ErrDelegateToContract  = errors.New("delegate resource to contract address is disabled since the constantinople upgrade")
	ErrNotYetExpired       = errors.New("freeze is not expired yet, cannot unfreeze")
	ErrNothingDelegated    = errors.New("no delegated resource to unfreeze for this receiver")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
)

// Config carries the configured freeze duration bounds. The bounds come
// from the genesis file and never change over the life of the chain.
type Config struct {
	MinFreezeDays uint64
	MaxFreezeDays uint64
}

// EventHandler defines a function that is called when events occur in the
// processing of staking operations.
type EventHandler func(v string, args ...any)

// Settler represents the behavior required of the reward subsystem.
// WithdrawReward must credit any pending staking reward to the owner's
// balance and buffer the writes before returning.
type Settler interface {
	WithdrawReward(db *database.Store, owner database.AccountID) error
}

// Receipt carries the reporting values of an executed operation.
type Receipt struct {
	UnfrozenAmount uint64
}

// Operation represents one of the two staking ledger operations. Validate
// performs zero mutation. Execute is only invoked after Validate succeeds
// and buffers its writes into the store for an atomic commit by the caller.
type Operation interface {
	Name() string
	Validate(db *database.Store, cfg Config, now uint64) error
	Execute(db *database.Store, cfg Config, now uint64, settler Settler, ev EventHandler) (Receipt, error)
}

// =============================================================================

// safeAdd adds two amounts, failing with ErrArithmeticOverflow instead of
// silently wrapping.
func safeAdd(a uint64, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// mustSub subtracts a previously validated amount. A negative result means
// validation was broken and processing of the block must stop.
func mustSub(a uint64, b uint64, what string) uint64 {
	if b > a {
		panic("stake: " + what + " would go negative")
	}
	return a - b
}
