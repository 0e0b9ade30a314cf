package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/auth"
	"github.com/JongDeug/blog-backend/internal/config"
	"github.com/JongDeug/blog-backend/internal/database"
	"github.com/JongDeug/blog-backend/internal/handler"
	"github.com/JongDeug/blog-backend/internal/middleware"
	"github.com/JongDeug/blog-backend/internal/queue"
	"github.com/JongDeug/blog-backend/internal/repository"
	"github.com/JongDeug/blog-backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	// The session store is the source of truth for live sessions, so a
	// dead redis at boot is fatal rather than a degraded mode.
	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)
	categories := repository.NewCategoryRepo(db)
	tags := repository.NewTagRepo(db)
	comments := repository.NewCommentRepo(db)

	codec := auth.NewTokenCodec(
		cfg.AccessSecret, cfg.RefreshSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLHours)*time.Hour,
	)
	sessions := auth.NewSessionStore(rdb)
	authSvc := auth.NewService(users, sessions, codec, cfg.BcryptCost)

	e := echo.New()
	e.HideBanner = true

	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.Cache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, authSvc), codec, limit)
	router.RegisterBlog(e,
		handler.NewPostHandler(posts),
		handler.NewTaxonomyHandler(categories, tags),
		handler.NewCommentHandler(comments, posts),
		codec, cache)

	// Comment notification consumer; reconnects on its own and never
	// takes the server down.
	go func() {
		if err := queue.StartCommentConsumer(); err != nil {
			log.Printf("comment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
