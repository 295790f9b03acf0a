package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"novacare-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// BookedSlotCache caches the booked start times of a (doctor, date).
//
// Entries are versioned: Load returns the version it observed, Store writes
// under that version only, and Invalidate bumps the version. A reader that
// loaded from the database before a mutation can therefore never publish its
// stale result under the version readers see after the mutation.
type BookedSlotCache interface {
	Load(ctx context.Context, doctorID uuid.UUID, date time.Time) (times []entity.TimeOfDay, version int64, hit bool, err error)
	Store(ctx context.Context, doctorID uuid.UUID, date time.Time, version int64, times []entity.TimeOfDay) error
	Invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time) error
}

const RedisBookedSlotsKeyPrefix = "slots:booked:"

// ErrCacheUnavailable is returned when the cache cannot be reached at startup
var ErrCacheUnavailable = errors.New("booked slot cache unavailable")

// All three scripts take KEYS[1] = version key and KEYS[2] = payload hash.
// Both keys share a hash tag so they live in the same cluster slot.
//
// The version key has no TTL. If it expired, INCR would restart from 1 and a
// payload written under an earlier 1 could be served again after a mutation.

// loadBookedSlotsScript returns {version, times|false}. The payload only
// counts when it was written under the current version.
var loadBookedSlotsScript = redis.NewScript(`
	local version = redis.call('GET', KEYS[1]) or '0'
	local stored = redis.call('HMGET', KEYS[2], 'version', 'times')
	if stored[1] ~= version or not stored[2] then
		return {version, false}
	end
	return {version, stored[2]}
`)

// storeBookedSlotsScript writes ARGV[2] with a TTL of ARGV[3] ms only while
// the version is still ARGV[1]. Returns 1 when stored.
var storeBookedSlotsScript = redis.NewScript(`
	local version = redis.call('GET', KEYS[1]) or '0'
	if version ~= ARGV[1] then
		return 0
	end
	redis.call('HSET', KEYS[2], 'version', ARGV[1], 'times', ARGV[2])
	redis.call('PEXPIRE', KEYS[2], ARGV[3])
	return 1
`)

// invalidateBookedSlotsScript bumps the version and drops the payload.
// PERSIST clears a TTL left on the version key by older deployments.
var invalidateBookedSlotsScript = redis.NewScript(`
	local version = redis.call('INCR', KEYS[1])
	redis.call('PERSIST', KEYS[1])
	redis.call('DEL', KEYS[2])
	return version
`)

type RedisSlotCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewRedisSlotCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// bookedSlotsKeys returns the version key and the payload key of a (doctor, date)
func bookedSlotsKeys(doctorID uuid.UUID, date time.Time) []string {
	base := fmt.Sprintf("%s{%s:%s}", RedisBookedSlotsKeyPrefix, doctorID, date.Format("2006-01-02"))
	return []string{base + ":version", base + ":payload"}
}

func (c *RedisSlotCache) Load(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.TimeOfDay, int64, bool, error) {
	keys := bookedSlotsKeys(doctorID, date)

	result, err := loadBookedSlotsScript.Run(ctx, c.redisClient, keys).Slice()
	if err != nil {
		return nil, 0, false, fmt.Errorf("lua load booked slots %s: %w", keys[1], err)
	}
	if len(result) != 2 {
		return nil, 0, false, fmt.Errorf("lua load booked slots %s: unexpected reply length %d", keys[1], len(result))
	}

	versionStr, _ := result[0].(string)
	version, err := strconv.ParseInt(versionStr, 10, 64)
	if err != nil {
		return nil, 0, false, fmt.Errorf("parse version of %s: %w", keys[0], err)
	}

	payload, ok := result[1].(string)
	if !ok {
		return nil, version, false, nil
	}

	var times []entity.TimeOfDay
	if err := json.Unmarshal([]byte(payload), &times); err != nil {
		return nil, version, false, fmt.Errorf("decode booked slots %s: %w", keys[1], err)
	}

	c.log.Debugf("Booked slots cache hit: key=%s version=%d", keys[1], version)
	return times, version, true, nil
}

// Store is a no-op when the version moved on since Load; the caller's data
// may predate that mutation.
func (c *RedisSlotCache) Store(ctx context.Context, doctorID uuid.UUID, date time.Time, version int64, times []entity.TimeOfDay) error {
	if times == nil {
		times = []entity.TimeOfDay{}
	}
	payload, err := json.Marshal(times)
	if err != nil {
		return err
	}

	keys := bookedSlotsKeys(doctorID, date)
	stored, err := storeBookedSlotsScript.Run(ctx, c.redisClient, keys,
		strconv.FormatInt(version, 10), payload, c.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("store booked slots %s: %w", keys[1], err)
	}
	if stored == 0 {
		c.log.Debugf("Skipped stale booked slots write: key=%s version=%d", keys[1], version)
	}
	return nil
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time) error {
	keys := bookedSlotsKeys(doctorID, date)

	version, err := invalidateBookedSlotsScript.Run(ctx, c.redisClient, keys).Int64()
	if err != nil {
		return fmt.Errorf("invalidate booked slots %s: %w", keys[0], err)
	}

	c.log.Debugf("Invalidated booked slots cache: key=%s version=%d", keys[0], version)
	return nil
}

// NopSlotCache disables caching; every Load is a miss.
type NopSlotCache struct{}

func (NopSlotCache) Load(context.Context, uuid.UUID, time.Time) ([]entity.TimeOfDay, int64, bool, error) {
	return nil, 0, false, nil
}

func (NopSlotCache) Store(context.Context, uuid.UUID, time.Time, int64, []entity.TimeOfDay) error {
	return nil
}

func (NopSlotCache) Invalidate(context.Context, uuid.UUID, time.Time) error {
	return nil
}

// Ping checks connectivity; callers fall back to NopSlotCache on failure.
func (c *RedisSlotCache) Ping(ctx context.Context) error {
	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
