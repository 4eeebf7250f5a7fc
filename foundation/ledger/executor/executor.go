// Package executor runs staking operations against the ledger state:
// validate against committed state, execute into a write buffer, then
// commit the buffer atomically or discard it whole. Operations run strictly
// sequentially under the block's logical clock.
package executor

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/genesis"
	"github.com/meridianchain/meridian/foundation/ledger/stake"
	"github.com/meridianchain/meridian/foundation/ledger/storage"
)

// Config represents the configuration required to construct an executor.
type Config struct {
	Genesis   genesis.Genesis
	KV        storage.KV
	Settler   stake.Settler
	EvHandler stake.EventHandler
}

// Executor owns the sequential processing of staking operations and the
// logical block clock used for all expiration arithmetic.
type Executor struct {
	mu      sync.Mutex
	kv      storage.KV
	cfg     stake.Config
	genesis genesis.Genesis
	settler stake.Settler
	ev      stake.EventHandler
	now     uint64
}

// New constructs an executor, seeding a fresh database from the genesis
// information on first use.
func New(cfg Config) (*Executor, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	ex := Executor{
		kv: cfg.KV,
		cfg: stake.Config{
			MinFreezeDays: cfg.Genesis.MinFreezeDays,
			MaxFreezeDays: cfg.Genesis.MaxFreezeDays,
		},
		genesis: cfg.Genesis,
		settler: cfg.Settler,
		ev:      ev,
	}

	db := database.NewStore(cfg.KV)

	if _, err := db.Property(database.PropChainID); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("querying chain id: %w", err)
		}

		if err := seed(db, cfg.Genesis); err != nil {
			return nil, fmt.Errorf("seeding genesis state: %w", err)
		}
		if err := db.Commit(); err != nil {
			return nil, fmt.Errorf("committing genesis state: %w", err)
		}

		ev("executor: seeded genesis state: chain[%d] accounts[%d]", cfg.Genesis.ChainID, len(cfg.Genesis.Balances))
	}

	ex.now = db.MustProperty(database.PropLatestBlockTime)
	ex.refreshWeightMetrics(db)

	return &ex, nil
}

// Run validates the operation against the committed state and, only on
// success, executes and commits it. Any execute or commit failure discards
// every buffered write, so the state never holds a partial operation.
func (ex *Executor) Run(op stake.Operation) (stake.Receipt, error) {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	db := database.NewStore(ex.kv)

	if err := op.Validate(db, ex.cfg, ex.now); err != nil {
		metricOps.WithLabelValues(op.Name(), "rejected").Inc()
		return stake.Receipt{}, err
	}

	if db.Pending() != 0 {
		panic(fmt.Sprintf("executor: %s validation issued %d writes", op.Name(), db.Pending()))
	}

	receipt, err := op.Execute(db, ex.cfg, ex.now, ex.settler, ex.ev)
	if err != nil {
		db.Discard()
		metricOps.WithLabelValues(op.Name(), "failed").Inc()
		return stake.Receipt{}, err
	}

	if err := db.Commit(); err != nil {
		db.Discard()
		metricOps.WithLabelValues(op.Name(), "failed").Inc()
		return stake.Receipt{}, err
	}

	metricOps.WithLabelValues(op.Name(), "applied").Inc()
	ex.refreshWeightMetrics(db)

	return receipt, nil
}

// SetBlockTime advances the logical clock to the specified millisecond
// timestamp. The clock never moves backwards.
func (ex *Executor) SetBlockTime(timestamp uint64) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	if timestamp < ex.now {
		return fmt.Errorf("block time cannot move backwards: have %d, got %d", ex.now, timestamp)
	}

	db := database.NewStore(ex.kv)
	db.SetProperty(database.PropLatestBlockTime, timestamp)
	if err := db.Commit(); err != nil {
		return fmt.Errorf("persisting block time: %w", err)
	}

	ex.now = timestamp
	return nil
}

// BlockTime returns the current logical clock in milliseconds.
func (ex *Executor) BlockTime() uint64 {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	return ex.now
}

// View runs the specified function against a read view of the committed
// state. Writes buffered by the function are dropped.
func (ex *Executor) View(fn func(db *database.Store) error) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	db := database.NewStore(ex.kv)
	defer db.Discard()

	return fn(db)
}

// Audit reconciles the incrementally maintained weight counters against
// the full set of delegation records.
func (ex *Executor) Audit() (stake.WeightAudit, error) {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	return stake.AuditWeights(database.NewStore(ex.kv))
}

// Genesis returns a copy of the genesis information.
func (ex *Executor) Genesis() genesis.Genesis {
	return ex.genesis
}

// =============================================================================

// seed initializes a fresh database with the genesis accounts, witnesses,
// chain parameters, and zeroed weight counters. Map keys are applied in
// sorted order so every node seeds byte-identical state.
func seed(db *database.Store, gen genesis.Genesis) error {
	accountStrs := make([]string, 0, len(gen.Balances))
	for accountStr := range gen.Balances {
		accountStrs = append(accountStrs, accountStr)
	}
	sort.Strings(accountStrs)

	for _, accountStr := range accountStrs {
		accountID, err := database.ToAccountID(accountStr)
		if err != nil {
			return fmt.Errorf("genesis balance account %q: %w", accountStr, err)
		}
		db.SaveAccount(database.NewAccount(accountID, gen.Balances[accountStr]))
	}

	witnessStrs := make([]string, 0, len(gen.Witnesses))
	for witnessStr := range gen.Witnesses {
		witnessStrs = append(witnessStrs, witnessStr)
	}
	sort.Strings(witnessStrs)

	for _, witnessStr := range witnessStrs {
		witnessID, err := database.ToAccountID(witnessStr)
		if err != nil {
			return fmt.Errorf("genesis witness account %q: %w", witnessStr, err)
		}

		db.SaveWitness(database.Witness{
			Address: witnessID,
			URL:     gen.Witnesses[witnessStr].URL,
		})

		// A witness candidate always has an account on chain.
		if _, exists := gen.Balances[witnessStr]; !exists {
			db.SaveAccount(database.NewAccount(witnessID, 0))
		}
	}

	db.SetParam(database.ParamAllowDelegateResource, boolToUint(gen.AllowDelegateResource))
	db.SetParam(database.ParamAllowConstantinople, boolToUint(gen.AllowConstantinople))

	db.SetProperty(database.PropTotalBandwidthWeight, 0)
	db.SetProperty(database.PropTotalEnergyWeight, 0)
	db.SetProperty(database.PropLatestBlockTime, uint64(gen.Date.UnixMilli()))
	db.SetProperty(database.PropChainID, uint64(gen.ChainID))

	return nil
}

// refreshWeightMetrics publishes the committed weight counters. Metrics
// failures must never affect processing, so missing counters are skipped.
func (ex *Executor) refreshWeightMetrics(db *database.Store) {
	if bw, err := db.Property(database.PropTotalBandwidthWeight); err == nil {
		metricWeight.WithLabelValues("bandwidth").Set(float64(bw))
	}
	if en, err := db.Property(database.PropTotalEnergyWeight); err == nil {
		metricWeight.WithLabelValues("energy").Set(float64(en))
	}
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
