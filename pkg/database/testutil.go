package database

import (
	"github.com/alicebob/miniredis/v2"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
)

// NewMockPool creates a pgxmock pool for tests. Call ExpectationsWereMet at
// the end of each test.
func NewMockPool() (pgxmock.PgxPoolIface, error) {
	return pgxmock.NewPool()
}

// NewMiniRedis starts an in-process Redis and returns it with a connected
// client. The caller closes both.
func NewMiniRedis() (*miniredis.Miniredis, *redis.Client, error) {
	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, err
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil
}
