package main

import (
	stdContext "context"
	"flag"
	"strings"
	"time"

	"github.com/sysdevguru/stockfolio/db"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/log"
	"github.com/sysdevguru/stockfolio/migration"
	"github.com/sysdevguru/stockfolio/pfreg"
	"github.com/sysdevguru/stockfolio/rest"
	"github.com/sysdevguru/stockfolio/utils/initializer"
	"github.com/sysdevguru/stockfolio/utils/signalman"
)

func shutdown() error {
	timeout := time.Second
	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), timeout)
	defer cancel()
	return rest.Shutdown(ctx)
}

func init() {
	// register env defaults
	initializer.Initialize()

	flag.Parse()

	signalman.RegisterFunc("rest_shutdown", shutdown)
}

func main() {
	// bring the schema up to date before serving
	if err := migration.Migration(db.DB()).Migrate(); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	signalman.Start()

	log.Info(
		"stockfolio is live",
		"port", env.GetVar("PORT"),
		"mode", env.GetVar("NODE_ENV"))

	if err := rest.Start(env.GetVar("PORT"), pfreg.Services); err != nil {
		if !strings.Contains(err.Error(), "Server closed") {
			log.Fatal("rest server unexpectedly exited", "error", err)
		}
	}

	defer db.DB().Close()

	log.Info("waiting for graceful shutdown")
	signalman.Wait()
}
