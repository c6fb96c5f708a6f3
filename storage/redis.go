package storage

import (
	"log"

	"github.com/go-redis/redis/v8"
)

// InitializeRedis builds the client used as the refresh-token allow-list.
func InitializeRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	log.Println("Redis initialized with address:", addr)
	return client
}
