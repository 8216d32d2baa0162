package location

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-clockin/internal/domain"

	"github.com/redis/go-redis/v9"
)

const LastFixKeyPrefix = "device:last_fix:"

func GetLastFixKey(deviceID string) string {
	return LastFixKeyPrefix + deviceID
}

// RedisSource reads the last fix a device location daemon wrote into a
// Redis hash (fields: lat, lon, recorded_at).
type RedisSource struct {
	rdb      *redis.Client
	deviceID string
}

func NewRedisSource(rdb *redis.Client, deviceID string) *RedisSource {
	return &RedisSource{rdb: rdb, deviceID: deviceID}
}

func (s *RedisSource) LastKnown(ctx context.Context) (*domain.GeoPosition, error) {
	vals, err := s.rdb.HGetAll(ctx, GetLastFixKey(s.deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("location: read last fix: %w", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(vals["lat"], 64)
	if err != nil {
		return nil, fmt.Errorf("location: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(vals["lon"], 64)
	if err != nil {
		return nil, fmt.Errorf("location: parse lon: %w", err)
	}
	return &domain.GeoPosition{Latitude: lat, Longitude: lon}, nil
}

// Record plays the device daemon's part: it overwrites the last fix.
func (s *RedisSource) Record(ctx context.Context, pos domain.GeoPosition, at time.Time) error {
	return s.rdb.HSet(ctx, GetLastFixKey(s.deviceID),
		"lat", strconv.FormatFloat(pos.Latitude, 'f', -1, 64),
		"lon", strconv.FormatFloat(pos.Longitude, 'f', -1, 64),
		"recorded_at", at.UTC().Format(time.RFC3339),
	).Err()
}
