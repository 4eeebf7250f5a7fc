// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/meridianchain/meridian/business/sys/validate"
	v1 "github.com/meridianchain/meridian/business/web/v1"
	"github.com/meridianchain/meridian/foundation/events"
	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/executor"
	"github.com/meridianchain/meridian/foundation/ledger/stake"
	"github.com/meridianchain/meridian/foundation/nameservice"
	"github.com/meridianchain/meridian/foundation/web"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	Executor *executor.Executor
	NS       *nameservice.NameService
	WS       websocket.Upgrader
	Evts     *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.Executor.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns the resource state for all accounts or a single account.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountStr := web.Param(r, "account")

	var acts []info

	collect := func(acct database.Account) error {
		acts = append(acts, info{
			Account:            acct.AccountID,
			Name:               h.NS.Lookup(acct.AccountID),
			Balance:            acct.Balance,
			FrozenBandwidth:    acct.FrozenBandwidth,
			FrozenEnergy:       acct.FrozenEnergy,
			DelegatedBandwidth: acct.DelegatedBandwidth,
			DelegatedEnergy:    acct.DelegatedEnergy,
			DelegatedOut:       acct.DelegatedOutAmount,
		})
		return nil
	}

	err := h.Executor.View(func(db *database.Store) error {
		if accountStr == "" {
			return db.ForEachAccount(collect)
		}

		accountID, err := database.ToAccountID(accountStr)
		if err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}

		acct, err := db.Account(accountID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return v1.NewRequestError(err, http.StatusNotFound)
			}
			return err
		}

		return collect(acct)
	})
	if err != nil {
		return err
	}

	ai := actInfo{
		BlockTime: h.Executor.BlockTime(),
		Accounts:  acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Delegations returns every outstanding delegation record originating from
// the specified account, the self-freeze record included.
func (h Handlers) Delegations(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := database.ToAccountID(web.Param(r, "account"))
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var dels []delegation

	err = h.Executor.View(func(db *database.Store) error {
		di, err := db.DelegationIndex(accountID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil
			}
			return err
		}

		for _, to := range di.To {
			rd, err := db.Delegation(accountID, to)
			if err != nil {
				return err
			}

			dels = append(dels, delegation{
				From:                rd.From,
				FromName:            h.NS.Lookup(rd.From),
				To:                  rd.To,
				ToName:              h.NS.Lookup(rd.To),
				BandwidthAmount:     rd.BandwidthAmount,
				BandwidthExpiration: rd.BandwidthExpiration,
				EnergyAmount:        rd.EnergyAmount,
				EnergyExpiration:    rd.EnergyExpiration,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(dels) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, dels, http.StatusOK)
}

// SubmitFreeze locks balance into frozen stake for the specified resource.
func (h Handlers) SubmitFreeze(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req freezeRequest
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	resource, err := stake.ParseResource(req.Resource)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	fb := stake.FreezeBalance{
		Owner:        database.AccountID(req.Owner),
		Amount:       req.Amount,
		DurationDays: req.DurationDays,
		Resource:     resource,
		Receiver:     database.AccountID(req.Receiver),
	}

	h.Log.Infow("submit freeze", "traceid", v.TraceID, "owner", req.Owner, "amount", req.Amount, "resource", req.Resource, "receiver", req.Receiver)
	if _, err := h.Executor.Run(fb); err != nil {
		return stakeError(err)
	}

	return web.Respond(ctx, w, receipt{Status: "balance frozen"}, http.StatusOK)
}

// SubmitUnfreeze releases expired frozen stake back into balance.
func (h Handlers) SubmitUnfreeze(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req unfreezeRequest
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(req); err != nil {
		return err
	}

	resource, err := stake.ParseResource(req.Resource)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	ub := stake.UnfreezeBalance{
		Owner:    database.AccountID(req.Owner),
		Resource: resource,
		Receiver: database.AccountID(req.Receiver),
	}

	h.Log.Infow("submit unfreeze", "traceid", v.TraceID, "owner", req.Owner, "resource", req.Resource, "receiver", req.Receiver)
	rcpt, err := h.Executor.Run(ub)
	if err != nil {
		return stakeError(err)
	}

	resp := receipt{
		Status:         "balance unfrozen",
		UnfrozenAmount: rcpt.UnfrozenAmount,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// stakeError classifies operation failures. Every validation sentinel is a
// client problem; anything else bubbles up as a server error.
func stakeError(err error) error {
	sentinels := []error{
		stake.ErrInvalidAddress,
		stake.ErrAccountNotFound,
		stake.ErrReceiverNotFound,
		stake.ErrInsufficientBalance,
		stake.ErrInvalidDuration,
		stake.ErrInvalidResource,
		stake.ErrSameAccount,
		stake.ErrDelegateToContract,
		stake.ErrNotYetExpired,
		stake.ErrNothingDelegated,
	}

	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
	}

	return err
}
