package registry

import (
	"github.com/sysdevguru/stockfolio/service/holding"
	"github.com/sysdevguru/stockfolio/service/marketdata"
	"github.com/sysdevguru/stockfolio/service/portfolio"
	"github.com/sysdevguru/stockfolio/service/snapshot"
)

type Registry interface {
	Holding() holding.HoldingService
	MarketData() marketdata.MarketDataService
	Portfolio() portfolio.PortfolioService
	Snapshot() snapshot.SnapshotService
}
