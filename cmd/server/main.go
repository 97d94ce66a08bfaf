package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/config"
	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/handler"
	"github.com/iliyamo/event-registration/internal/middleware"
	"github.com/iliyamo/event-registration/internal/queue"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/router"
	"github.com/iliyamo/event-registration/internal/service"
)

func main() {
	// .env is a convenience for local runs; deployments set real env vars.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	partitions, err := database.NewManager(cfg.DataDir)
	if err != nil {
		log.Fatalf("open data dir %s: %v", cfg.DataDir, err)
	}
	defer partitions.Close()

	organizers := repository.NewOrganizerRepo(partitions.Registry())
	tokens := repository.NewTokenRepo(partitions.Registry())
	links := repository.NewLinkRepo(partitions.Registry())

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limit disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, organizers, tokens), cfg.JWTSecret)
	router.RegisterOrganizer(e,
		handler.NewOrganizerHandler(cfg, partitions, links, service.NewCopyWriter(cfg.CopyServiceURL)),
		handler.NewOrganizerRegistrationHandler(partitions),
		cfg.JWTSecret,
	)
	router.RegisterGuest(e, handler.NewGuestHandler(cfg, partitions, organizers, links), cacheMW, limitMW)

	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("registration consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
