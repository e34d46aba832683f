package config

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis opens the shared Redis client used for seat holds.
func ConnectRedis(env Env) *redis.Client {
	if Redis != nil {
		return Redis
	}

	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
		PoolSize: 10,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("warning: redis unreachable (%v); seat holds disabled", err)
	}

	Redis = client
	return Redis
}

// EnsureRedis pings the shared client.
func EnsureRedis(ctx context.Context) error {
	if Redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	_, err := Redis.Ping(ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
		Redis = nil
	}
}
