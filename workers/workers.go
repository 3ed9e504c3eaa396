package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"github.com/sysdevguru/stockfolio/db"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/log"
	"github.com/sysdevguru/stockfolio/pfreg"
	"github.com/sysdevguru/stockfolio/utils/initializer"
	"github.com/sysdevguru/stockfolio/utils/signalman"
)

var (
	cronWg sync.WaitGroup
	c      *cron.Cron
)

func shutdown() error {
	// stop crons so no new ones start
	if c != nil {
		c.Stop()
	}

	// wait for existing crons to finish
	cronWg.Wait()

	// sleep a second to let things cleanup
	<-time.After(time.Second)
	return nil
}

func init() {
	// register env defaults
	initializer.Initialize()

	flag.Parse()

	signalman.RegisterFunc("workers_shutdown", shutdown)
	signalman.Start()
}

func main() {
	c = cron.New()

	// snapshot worker - records a price history row for every held
	// stock so the portfolio has a trail even when nobody refreshes
	log.Info(
		"starting snapshot worker",
		"interval",
		env.GetVar("SNAPSHOT_WORKER_INTERVAL"))

	sweep := func() {
		cronWg.Add(1)
		defer cronWg.Done()

		start := time.Now()

		n, err := pfreg.Services.Snapshot().WithTx(db.DB()).Sweep()
		if err != nil {
			log.Error("snapshot sweep failed", "error", err)
			return
		}

		log.Info("snapshot sweep complete", "recorded", n, "elapsed", time.Since(start))
	}

	c.AddFunc(fmt.Sprintf("@every %v", env.GetVar("SNAPSHOT_WORKER_INTERVAL")), sweep)

	// run it immediately
	sweep()

	// queue the crons
	c.Start()

	log.Info("workers are live", "mode", env.GetVar("NODE_ENV"))

	signalman.Wait()
}
