package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mswdo/soloparent-backend/config"
)

// RDB is the shared Redis client. Holds password-reset tokens and the
// monthly export counters.
var RDB *redis.Client

// ConnectRedis initializes RDB and pings the server.
func ConnectRedis(cfg *config.Config) error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		return err
	}
	log.Println("✅ Redis connected:", cfg.RedisAddr)
	return nil
}
