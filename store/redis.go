package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"food-ordering/api/service"
)

// RedisPresence mirrors courier locations and order assignments into Redis
// hashes so external tracking consumers can read them without touching the
// primary store.
type RedisPresence struct {
	rdb *redis.Client
}

func NewRedisPresence(rdb *redis.Client) *RedisPresence { return &RedisPresence{rdb: rdb} }

var _ service.Presence = (*RedisPresence)(nil)

func (p *RedisPresence) SetCourierLocation(ctx context.Context, courierID string, lat, lon float64) error {
	return p.rdb.HSet(ctx, "courier:"+courierID, map[string]interface{}{
		"latitude":    lat,
		"longitude":   lon,
		"last_update": time.Now().Unix(),
	}).Err()
}

func (p *RedisPresence) SetOrderCourier(ctx context.Context, orderID, courierID string) error {
	return p.rdb.Set(ctx, "order:"+orderID+":courier", courierID, 0).Err()
}
