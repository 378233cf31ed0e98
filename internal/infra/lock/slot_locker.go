// Package lock распределённые блокировки слотов на Redis (SET NX + снятие Lua-скриптом по токену).
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired возвращается, если ключ уже удерживается другим запросом
var ErrLockNotAcquired = errors.New("lock: slot lock not acquired")

// SlotLocker блокирует набор ключей на время выполнения функции
type SlotLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewSlotLocker создает блокировщик с заданным временем жизни ключей
func NewSlotLocker(client *redis.Client, ttl time.Duration) *SlotLocker {
	return &SlotLocker{
		client: client,
		ttl:    ttl,
		prefix: "lock:slot:",
	}
}

// WithLocks захватывает все ключи в лексикографическом порядке, выполняет fn и отпускает их.
// Если какой-то ключ занят, уже захваченные отпускаются и возвращается ErrLockNotAcquired.
func (l *SlotLocker) WithLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	ordered := uniqueSorted(keys)
	token := uuid.NewString()

	acquired := make([]string, 0, len(ordered))
	defer func() {
		for _, key := range acquired {
			_ = l.release(context.WithoutCancel(ctx), key, token)
		}
	}()

	for _, key := range ordered {
		redisKey := l.prefix + key
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("lock: acquire %s: %w", key, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}
		acquired = append(acquired, redisKey)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *SlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("lock: release %s: %w", key, err)
	}
	return nil
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
