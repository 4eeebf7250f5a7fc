// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/meridianchain/meridian/app/services/node/handlers/v1/private"
	"github.com/meridianchain/meridian/app/services/node/handlers/v1/public"
	"github.com/meridianchain/meridian/foundation/events"
	"github.com/meridianchain/meridian/foundation/ledger/executor"
	"github.com/meridianchain/meridian/foundation/nameservice"
	"github.com/meridianchain/meridian/foundation/web"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log      *zap.SugaredLogger
	Executor *executor.Executor
	NS       *nameservice.NameService
	Evts     *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:      cfg.Log,
		Executor: cfg.Executor,
		NS:       cfg.NS,
		WS:       websocket.Upgrader{},
		Evts:     cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/list", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/list/:account", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/delegations/list/:account", pbl.Delegations)
	app.Handle(http.MethodPost, version, "/stake/freeze", pbl.SubmitFreeze)
	app.Handle(http.MethodPost, version, "/stake/unfreeze", pbl.SubmitUnfreeze)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:      cfg.Log,
		Executor: cfg.Executor,
		NS:       cfg.NS,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/audit", prv.Audit)
	app.Handle(http.MethodPost, version, "/node/blocktime", prv.SetBlockTime)
	app.Handle(http.MethodGet, version, "/node/witnesses/list", prv.Witnesses)
}
