package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-lot-service/internal/config"
	"github.com/iliyamo/parking-lot-service/internal/database"
	"github.com/iliyamo/parking-lot-service/internal/handler"
	"github.com/iliyamo/parking-lot-service/internal/middleware"
	"github.com/iliyamo/parking-lot-service/internal/queue"
	"github.com/iliyamo/parking-lot-service/internal/repository"
	"github.com/iliyamo/parking-lot-service/internal/router"
)

func main() {
	// Load variables from a local .env file when present.  Real
	// deployments set the environment directly, so a missing file is
	// not an error.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	entryRepo := repository.NewEntryRepo(db)
	rateRepo := repository.NewRateRepo(db)
	adjustmentRepo := repository.NewAdjustmentRepo(db)
	shiftRepo := repository.NewShiftRepo(db, entryRepo)

	e := echo.New()

	// Redis is optional: without it the service runs uncached and
	// unthrottled rather than refusing to start.
	rdb := config.NewRedisClient()
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cCfg := config.LoadCacheConfig()
		if cCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cCfg, rdb)
		}
	}

	router.RegisterRoutes(e)
	router.RegisterEntries(e, handler.NewEntryHandler(entryRepo, rateRepo, adjustmentRepo, shiftRepo, cfg.EntryPolicy(), cfg.FeeOptions()))
	router.RegisterShifts(e, handler.NewShiftHandler(shiftRepo, entryRepo))
	router.RegisterRates(e, handler.NewRateHandler(rateRepo), cacheMW)

	// Recompute shift statistics off the request path whenever an
	// entry changes.  The consumer keeps reconnecting on its own, so
	// dropping the connection does not take the API down.
	go func() {
		if err := queue.StartEntryConsumer(shiftRepo); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
