// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	v1 "github.com/meridianchain/meridian/business/web/v1"
	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/executor"
	"github.com/meridianchain/meridian/foundation/nameservice"
	"github.com/meridianchain/meridian/foundation/web"
)

// Handlers manages the set of private node endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	Executor *executor.Executor
	NS       *nameservice.NameService
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var chainID uint64
	var bandwidthWeight uint64
	var energyWeight uint64

	err := h.Executor.View(func(db *database.Store) error {
		var err error
		if chainID, err = db.Property(database.PropChainID); err != nil {
			return err
		}
		if bandwidthWeight, err = db.Property(database.PropTotalBandwidthWeight); err != nil {
			return err
		}
		if energyWeight, err = db.Property(database.PropTotalEnergyWeight); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	status := struct {
		ChainID              uint64 `json:"chain_id"`
		BlockTime            uint64 `json:"block_time"`
		TotalBandwidthWeight uint64 `json:"total_bandwidth_weight"`
		TotalEnergyWeight    uint64 `json:"total_energy_weight"`
	}{
		ChainID:              chainID,
		BlockTime:            h.Executor.BlockTime(),
		TotalBandwidthWeight: bandwidthWeight,
		TotalEnergyWeight:    energyWeight,
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Audit reconciles the global weight counters against the full set of
// delegation records and reports any drift.
func (h Handlers) Audit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wa, err := h.Executor.Audit()
	if err != nil {
		return err
	}

	resp := struct {
		Clean             bool   `json:"clean"`
		StoredBandwidth   uint64 `json:"stored_bandwidth"`
		ComputedBandwidth uint64 `json:"computed_bandwidth"`
		StoredEnergy      uint64 `json:"stored_energy"`
		ComputedEnergy    uint64 `json:"computed_energy"`
	}{
		Clean:             wa.Clean(),
		StoredBandwidth:   wa.StoredBandwidth,
		ComputedBandwidth: wa.ComputedBandwidth,
		StoredEnergy:      wa.StoredEnergy,
		ComputedEnergy:    wa.ComputedEnergy,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SetBlockTime advances the node's logical block clock.
func (h Handlers) SetBlockTime(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Timestamp uint64 `json:"timestamp" validate:"required"`
	}
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := h.Executor.SetBlockTime(req.Timestamp); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status    string `json:"status"`
		BlockTime uint64 `json:"block_time"`
	}{
		Status:    "block time advanced",
		BlockTime: h.Executor.BlockTime(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Witnesses returns the set of witness candidates and their vote tallies.
func (h Handlers) Witnesses(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	type witness struct {
		Address   database.AccountID `json:"address"`
		Name      string             `json:"name"`
		VoteCount uint64             `json:"vote_count"`
		URL       string             `json:"url"`
	}

	var wits []witness

	err := h.Executor.View(func(db *database.Store) error {
		return db.ForEachWitness(func(wit database.Witness) error {
			wits = append(wits, witness{
				Address:   wit.Address,
				Name:      h.NS.Lookup(wit.Address),
				VoteCount: wit.VoteCount,
				URL:       wit.URL,
			})
			return nil
		})
	})
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, wits, http.StatusOK)
}
