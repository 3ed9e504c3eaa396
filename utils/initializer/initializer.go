package initializer

import (
	"os"

	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/log"
)

// DefaultPortfolioUserID is the fixed id of the demo user created by
// the seed script. PORTFOLIO_USER_ID falls back to it so a freshly
// seeded database works without any extra configuration.
const DefaultPortfolioUserID = "3b8da38a-1395-4c05-8edc-7309ed7b89bb"

// Initialize stockfolio's required environment variables
// to their default values.
func Initialize() {
	// Server
	env.RegisterDefault("PORT", "3000")
	env.RegisterDefault("NODE_ENV", "development")
	env.RegisterDefault("PORTFOLIO_USER_ID", DefaultPortfolioUserID)

	// Redis
	env.RegisterDefault("REDIS_PORT", "6379")

	// Workers
	env.RegisterDefault("SNAPSHOT_WORKER_INTERVAL", "1h")

	// if required vars are missing or malformed, refuse to start
	violations := env.Validate()
	for _, v := range violations {
		log.Error("invalid environment", "variable", v.Key, "reason", v.Message)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}
