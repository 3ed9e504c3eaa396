package portfolio

import (
	"github.com/sysdevguru/stockfolio/pferrors"
	"github.com/sysdevguru/stockfolio/rest/api"
)

// Get responds with the aggregated portfolio view for the session's
// principal.
func Get(ctx api.Context) {
	srv := ctx.Services().Portfolio().WithTx(ctx.Tx())

	summary, err := srv.Get(ctx.Session().UserID)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(summary)
	}
}

// Refresh busts the cached quote for a symbol and re-fetches it.
// Unlike the portfolio computation, provider failure here surfaces to
// the caller: the whole point of the request is fresh data.
func Refresh(ctx api.Context) {
	symbol := ctx.Params().Get("symbol")
	if symbol == "" {
		ctx.RespondError(pferrors.InvalidRequestParam.WithMsg("symbol is required"))
		return
	}

	quote, err := ctx.Services().MarketData().Refresh(symbol)
	if err != nil {
		ctx.RespondError(pferrors.InternalServerError.
			WithMsg("failed to refresh quote").
			WithError(err))
		return
	}

	// keep the historical record current while we have fresh data
	if _, err := ctx.Services().Snapshot().WithTx(ctx.Tx()).Record(quote); err != nil {
		ctx.RespondError(err)
		return
	}

	ctx.Respond(quote)
}
