package binder

import (
	"github.com/iris-contrib/middleware/cors"
	"github.com/kataras/iris"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/rest/api"
	"github.com/sysdevguru/stockfolio/rest/api/controller/portfolio"
	"github.com/sysdevguru/stockfolio/rest/api/middleware/httplogger"
	"github.com/sysdevguru/stockfolio/utils"
)

// Portfolio binds the portfolio API handlers to their endpoints
func Portfolio(a *api.API, r iris.Party) {
	r.Use(httplogger.New())

	// CORS
	{
		getOrigins := func() []string {
			switch {
			case utils.Prod():
				return []string{env.GetVar("FRONTEND_URL")}
			default:
				// development/test mode
				return []string{"*"}
			}
		}

		crs := cors.New(cors.Options{
			AllowedOrigins: getOrigins(),
			AllowedMethods: []string{
				iris.MethodGet,
				iris.MethodOptions,
			},
			AllowedHeaders:     []string{"*"},
			AllowCredentials:   true,
			OptionsPassthrough: false,
		})

		r.Use(crs)
		r.AllowMethods(iris.MethodOptions) // <- important for the preflight.
	}

	// aggregated portfolio view
	r.Get("/portfolio", a.Authenticate(portfolio.Get))

	// cache-busting quote refresh
	r.Get("/portfolio/{symbol}", a.Authenticate(portfolio.Refresh))

	// unmatched routes
	r.Any("/", a.NoAuth(a.RouteNotFound))
	r.Any("/{anypath}", a.NoAuth(a.RouteNotFound))
}
