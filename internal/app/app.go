package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rafdmrs/Faelist-todo-App/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 3 * time.Second

// App owns the process-wide resources: the Postgres pool backing todos and
// users, the Redis client backing sessions and the dashboard cache, and the
// HTTP router.
type App struct {
	cfg    config.Config
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

// New connects to Postgres and Redis, applies pending migrations and builds
// the router. On any failure the already-opened resources are closed.
func New(cfg config.Config) (*App, error) {
	db, err := openPostgres(cfg.PG)
	if err != nil {
		return nil, err
	}
	rdb, err := openRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(cfg.PG); err != nil {
		_ = rdb.Close()
		db.Close()
		return nil, err
	}

	r := gin.Default()
	r.Use(corsMiddleware())
	Setup(r, cfg, db, rdb)

	return &App{cfg: cfg, db: db, redis: rdb, router: r}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func openPostgres(pg config.PGConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(pg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	poolCfg.MaxConns = pg.MaxConns
	poolCfg.MinConns = pg.MinConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func openRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// migrate runs pending goose migrations over a database/sql handle; the pgx
// pool itself is not usable by goose.
func migrate(pg config.PGConfig) error {
	db, err := goose.OpenDBWithDriver("pgx", pg.DSN)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, pg.MigrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// corsMiddleware allows the SPA frontend to call the API with its session
// cookie from another origin during development.
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	})
}
