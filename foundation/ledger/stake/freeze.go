package stake

import (
	"errors"
	"fmt"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

// FreezeBalance locks balance into non-transferable frozen stake in
// exchange for bandwidth or energy, either for the owner itself or
// delegated to a receiver. A supplied receiver is ignored while the
// delegate-resource chain parameter is disabled, in validation and
// execution alike.
type FreezeBalance struct {
	Owner        database.AccountID
	Amount       uint64
	DurationDays uint64
	Resource     Resource
	Receiver     database.AccountID
}

// Name returns the operation name for reporting.
func (fb FreezeBalance) Name() string {
	return "freeze-balance"
}

// Validate performs all business rule checks against the committed state.
// It performs zero mutation.
func (fb FreezeBalance) Validate(db *database.Store, cfg Config, now uint64) error {
	if !fb.Owner.IsAccountID() {
		return fmt.Errorf("%w: owner %q", ErrInvalidAddress, fb.Owner)
	}

	acct, err := db.Account(fb.Owner)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("querying owner account: %w", err)
	}

	if fb.Amount < MinFreezeAmount {
		return fmt.Errorf("%w: frozen amount must be at least %d", ErrInsufficientBalance, MinFreezeAmount)
	}
	if fb.Amount > acct.Balance {
		return fmt.Errorf("%w: balance %d, required %d", ErrInsufficientBalance, acct.Balance, fb.Amount)
	}

	if fb.DurationDays < cfg.MinFreezeDays || fb.DurationDays > cfg.MaxFreezeDays {
		return fmt.Errorf("%w: must be in range [%d, %d]", ErrInvalidDuration, cfg.MinFreezeDays, cfg.MaxFreezeDays)
	}

	if !fb.Resource.Valid() {
		return ErrInvalidResource
	}

	if fb.Receiver != "" && delegationEnabled(db) {
		if fb.Receiver == fb.Owner {
			return ErrSameAccount
		}
		if !fb.Receiver.IsAccountID() {
			return fmt.Errorf("%w: receiver %q", ErrInvalidAddress, fb.Receiver)
		}

		recv, err := db.Account(fb.Receiver)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return ErrReceiverNotFound
			}
			return fmt.Errorf("querying receiver account: %w", err)
		}

		if db.MustParam(database.ParamAllowConstantinople) == 1 && recv.Type == database.AccountTypeContract {
			return ErrDelegateToContract
		}
	}

	return nil
}

// Execute locks the balance. The expiration window is computed from the
// block's logical timestamp, never wall clock time.
func (fb FreezeBalance) Execute(db *database.Store, cfg Config, now uint64, settler Settler, ev EventHandler) (Receipt, error) {
	expireTime := now + fb.DurationDays*dayMillis

	if fb.Receiver != "" && delegationEnabled(db) {
		if err := delegateResource(db, fb.Owner, fb.Receiver, fb.Resource, fb.Amount, expireTime); err != nil {
			return Receipt{}, err
		}

		ev("stake: delegate: from[%s] to[%s] resource[%s] amount[%d] expire[%d]", fb.Owner, fb.Receiver, fb.Resource, fb.Amount, expireTime)
		return Receipt{}, nil
	}

	if err := freezeResource(db, fb.Owner, fb.Resource, fb.Amount, expireTime); err != nil {
		return Receipt{}, err
	}

	ev("stake: freeze: owner[%s] resource[%s] amount[%d] expire[%d]", fb.Owner, fb.Resource, fb.Amount, expireTime)
	return Receipt{}, nil
}

// delegationEnabled reports whether the delegate-resource chain parameter
// is switched on.
func delegationEnabled(db *database.Store) bool {
	return db.MustParam(database.ParamAllowDelegateResource) == 1
}
