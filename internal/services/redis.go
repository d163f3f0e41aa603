package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ResendDelay is the fixed wait between verification or reset resends.
const ResendDelay = 60 * time.Second

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// AllowResend arms the 60-second resend throttle for an email address.
// It returns true and zero when the resend may proceed (the throttle key is
// then set), or false and the seconds remaining when a resend is still
// blocked. The TTL is the source of truth the clients seed their local
// countdown from.
func AllowResend(ctx context.Context, email string) (bool, int, error) {
	key := fmt.Sprintf("resend:throttle:%s", email)

	ok, err := RedisClient.SetNX(ctx, key, time.Now().Unix(), ResendDelay).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := RedisClient.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	remaining := int(ttl.Round(time.Second).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

// ResendRemaining reports the seconds left on the throttle without arming it.
func ResendRemaining(ctx context.Context, email string) (int, error) {
	key := fmt.Sprintf("resend:throttle:%s", email)
	ttl, err := RedisClient.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return int(ttl.Round(time.Second).Seconds()), nil
}

// BeginAction marks an action scope (e.g. "accept:booking:42") as having a
// request in flight, rejecting duplicates until ended or expired. This is
// the server-side twin of the clients disabling the triggering control.
func BeginAction(ctx context.Context, scope string) (bool, error) {
	key := fmt.Sprintf("action:inflight:%s", scope)
	return RedisClient.SetNX(ctx, key, 1, 30*time.Second).Result()
}

// EndAction releases an action scope.
func EndAction(ctx context.Context, scope string) {
	key := fmt.Sprintf("action:inflight:%s", scope)
	RedisClient.Del(ctx, key)
}

// SetUserRating caches a user's average rating for the ride listings.
func SetUserRating(ctx context.Context, userID uint, rating float64) error {
	key := fmt.Sprintf("user:rating:%d", userID)
	return RedisClient.Set(ctx, key, strconv.FormatFloat(rating, 'f', 2, 64), 5*time.Minute).Err()
}

// GetUserRating retrieves a cached rating; ok is false on a cache miss.
func GetUserRating(ctx context.Context, userID uint) (float64, bool, error) {
	key := fmt.Sprintf("user:rating:%d", userID)
	val, err := RedisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return rating, true, nil
}

// InvalidateUserRating drops the cached rating after a new review lands.
func InvalidateUserRating(ctx context.Context, userID uint) {
	key := fmt.Sprintf("user:rating:%d", userID)
	RedisClient.Del(ctx, key)
}
