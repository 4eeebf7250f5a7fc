package mid

import (
	"context"
	"net/http"

	"github.com/meridianchain/meridian/business/sys/metrics"
	"github.com/meridianchain/meridian/foundation/web"
)

// Metrics updates program counters.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			metrics.AddRequest()

			// Call the next handler.
			err := handler(ctx, w, r)

			if err != nil {
				metrics.AddError()
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
