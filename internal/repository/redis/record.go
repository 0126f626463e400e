package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/fashly/pkg/database"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// RecordRepository implements repository.RecordRepository using Redis.
// Every Save refreshes the key's TTL.
type RecordRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRecordRepository creates a Redis-backed repository. A zero ttl stores
// keys without expiry.
func NewRecordRepository(client redis.Cmdable, ttl time.Duration) *RecordRepository {
	return &RecordRepository{client: client, ttl: ttl}
}

// Get retrieves the record under key.
func (r *RecordRepository) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "GetRecord", "GET "+key)
	defer func() { end(err) }()

	data, err = r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("record", key)
		}
		return nil, apperrors.Wrap(err, "redis get "+key)
	}
	return data, nil
}

// Save writes data under key with the configured TTL.
func (r *RecordRepository) Save(ctx context.Context, key string, data []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "SaveRecord", "SET "+key)
	defer func() { end(err) }()

	if err = r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "redis set "+key)
	}
	return nil
}

// Delete removes key.
func (r *RecordRepository) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "DeleteRecord", "DEL "+key)
	defer func() { end(err) }()

	if err = r.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "redis del "+key)
	}
	return nil
}
