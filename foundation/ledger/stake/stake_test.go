package stake_test

import (
	"testing"

	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/reward"
	"github.com/meridianchain/meridian/foundation/ledger/stake"
	"github.com/meridianchain/meridian/foundation/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// Accounts used across the staking tests.
const (
	ownerID    = database.AccountID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	receiverID = database.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	witnessID  = database.AccountID("0xFef311483Cc040e1A89fb9bb469eeB8A70935EF8")
)

const (
	genesisTime = uint64(1_700_000_000_000)
	dayMillis   = uint64(86_400_000)
	coin        = uint64(1_000_000)
)

var testConfig = stake.Config{
	MinFreezeDays: 3,
	MaxFreezeDays: 3,
}

var nopEv = func(v string, args ...any) {}

// chain bundles the pieces each test needs to run operations directly
// against a seeded in-memory state.
type chain struct {
	db     *database.Store
	reward reward.Controller
}

// newChain seeds an in-memory state with the chain parameters, zeroed
// weight counters, and the specified account balances.
func newChain(t *testing.T, allowDelegate bool, allowConstantinople bool, balances map[database.AccountID]uint64) *chain {
	t.Helper()

	db := database.NewStore(memory.New())

	db.SetParam(database.ParamAllowDelegateResource, boolToUint(allowDelegate))
	db.SetParam(database.ParamAllowConstantinople, boolToUint(allowConstantinople))
	db.SetProperty(database.PropTotalBandwidthWeight, 0)
	db.SetProperty(database.PropTotalEnergyWeight, 0)

	for accountID, balance := range balances {
		db.SaveAccount(database.NewAccount(accountID, balance))
	}

	if err := db.Commit(); err != nil {
		t.Fatalf("\t%s\tShould be able to seed the state: %v", failed, err)
	}

	return &chain{db: db, reward: reward.NewController()}
}

// run validates then executes the operation and commits its writes, the
// same sequence the executor performs.
func (c *chain) run(op stake.Operation, now uint64) (stake.Receipt, error) {
	if err := op.Validate(c.db, testConfig, now); err != nil {
		return stake.Receipt{}, err
	}

	receipt, err := op.Execute(c.db, testConfig, now, c.reward, nopEv)
	if err != nil {
		c.db.Discard()
		return stake.Receipt{}, err
	}

	if err := c.db.Commit(); err != nil {
		c.db.Discard()
		return stake.Receipt{}, err
	}

	return receipt, nil
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
