package redis

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the shared client used for the directory sync status
// flags. Those flags are best-effort, so an unreachable server leaves Client
// nil instead of taking the process down; callers guard on that.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if err := Client.Ping(Ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, sync status flags disabled: %v", addr, err)
		Client = nil
		return
	}
	log.Println("✅ Connected to Redis")
}
