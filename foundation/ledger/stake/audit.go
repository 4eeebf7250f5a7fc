package stake

import (
	"github.com/meridianchain/meridian/foundation/ledger/database"
)

// WeightAudit carries the stored global weight counters next to the values
// recomputed from the full set of delegation records. Any difference is a
// consensus bug.
type WeightAudit struct {
	StoredBandwidth   uint64 `json:"stored_bandwidth"`
	ComputedBandwidth uint64 `json:"computed_bandwidth"`
	StoredEnergy      uint64 `json:"stored_energy"`
	ComputedEnergy    uint64 `json:"computed_energy"`
}

// Clean reports whether the incrementally maintained counters agree with
// the recomputation.
func (wa WeightAudit) Clean() bool {
	return wa.StoredBandwidth == wa.ComputedBandwidth && wa.StoredEnergy == wa.ComputedEnergy
}

// AuditWeights recomputes both global weight counters by summing
// amount/UnitsPerCoin over every committed delegation record. The counters
// are maintained additively during normal processing and never recomputed,
// so this is the reconciliation used by tests and operators to catch drift.
func AuditWeights(db *database.Store) (WeightAudit, error) {
	wa := WeightAudit{
		StoredBandwidth: db.MustProperty(database.PropTotalBandwidthWeight),
		StoredEnergy:    db.MustProperty(database.PropTotalEnergyWeight),
	}

	err := db.ForEachDelegation(func(rd database.ResourceDelegation) error {
		wa.ComputedBandwidth += rd.BandwidthAmount / UnitsPerCoin
		wa.ComputedEnergy += rd.EnergyAmount / UnitsPerCoin
		return nil
	})
	if err != nil {
		return WeightAudit{}, err
	}

	return wa, nil
}
