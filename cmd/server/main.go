package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"pizzeria/internal/auth"
	"pizzeria/internal/config"
	"pizzeria/internal/database"
	"pizzeria/internal/handler"
	"pizzeria/internal/middleware"
	"pizzeria/internal/queue"
	"pizzeria/internal/repository"
	"pizzeria/internal/router"
	"pizzeria/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	signer := auth.NewSigner(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)

	users := repository.NewUserRepo(db)
	plans := repository.NewPlanRepo(db)
	tokens := repository.NewTokenRepo(db)
	sessions := repository.NewSessionRepo(db)
	keys := repository.NewAPIKeyRepo(db)
	activity := repository.NewActivityRepo(db)
	pizzas := repository.NewPizzaRepo(db)
	ingredients := repository.NewIngredientRepo(db)
	categories := repository.NewCategoryRepo(db)
	images := repository.NewImageRepo(db)

	// Activity events flow through RabbitMQ: handlers fire hooks,
	// the publisher puts them on the queue, and the consumer writes
	// the activity log and notifications back to MySQL.
	hooks := &service.Hooks{}
	hooks.Register(service.PublishActivity)
	go func() {
		if err := queue.StartActivityConsumer(activity); err != nil {
			log.Printf("⚠️ activity consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, signer, users, plans, tokens, sessions, keys, activity, hooks)
	catalogH := handler.NewCatalogHandler(pizzas, ingredients, categories, images, hooks)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Redis is optional: without it the cache and the rate limiter
	// quietly disable themselves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("⚠️ redis unavailable; cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, signer, keys, users, sessions)
	router.RegisterCatalog(e, catalogH, signer, keys, users, sessions, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
