package pfreg

import (
	"github.com/sysdevguru/stockfolio/external/alphavantage"
	"github.com/sysdevguru/stockfolio/external/yahoo"
	"github.com/sysdevguru/stockfolio/quotecache"
	"github.com/sysdevguru/stockfolio/service/holding"
	"github.com/sysdevguru/stockfolio/service/marketdata"
	"github.com/sysdevguru/stockfolio/service/portfolio"
	"github.com/sysdevguru/stockfolio/service/registry"
	"github.com/sysdevguru/stockfolio/service/snapshot"
)

var Services registry.Registry

type pfRegistry struct{}

func (r *pfRegistry) Holding() holding.HoldingService {
	return holding.Service()
}

func (r *pfRegistry) MarketData() marketdata.MarketDataService {
	return marketdata.Service(
		quotecache.New(),
		yahoo.NewClient(),
		alphavantage.NewClient(),
	)
}

func (r *pfRegistry) Portfolio() portfolio.PortfolioService {
	return portfolio.Service(r.Holding(), r.MarketData())
}

func (r *pfRegistry) Snapshot() snapshot.SnapshotService {
	return snapshot.Service(r.MarketData())
}

func init() {
	Services = &pfRegistry{}
}
