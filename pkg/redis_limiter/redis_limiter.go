package redis_limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// 窗口内首次计数时设置过期时间, 超过上限时不再累加
var allowScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current ~= false and tonumber(current) >= tonumber(ARGV[1]) then
	return -1
end

local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
end
return count`)

// RedisLimiter 基于Redis的固定窗口计数限流器
type RedisLimiter struct {
	client    *redis.Client
	limit     int
	keyPrefix string
	window    time.Duration
	logger    *logrus.Logger
}

// NewRedisLimiter 创建限流器, 每个key在window内最多通过limit次
func NewRedisLimiter(client *redis.Client, limit int, keyPrefix string, window time.Duration, logger *logrus.Logger) *RedisLimiter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisLimiter{
		client:    client,
		limit:     limit,
		keyPrefix: keyPrefix,
		window:    window,
		logger:    logger,
	}
}

// Allow 记录一次请求, 返回是否允许
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rl.keyPrefix + key

	seconds := int(rl.window.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	result, err := allowScript.Run(ctx, rl.client, []string{redisKey}, rl.limit, seconds).Int64()
	if err != nil {
		return false, fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	entry := rl.logger.WithFields(logrus.Fields{"key": key, "limit": rl.limit})
	if result < 0 {
		entry.Warn("[RedisLimiter] 请求次数已达上限")
		return false, nil
	}

	entry.WithField("count", result).Debug("[RedisLimiter] 请求已计数")
	return true, nil
}

// Reset 清除计数
func (rl *RedisLimiter) Reset(ctx context.Context, key string) error {
	return rl.client.Del(ctx, rl.keyPrefix+key).Err()
}

// GetCurrent 获取当前窗口内的计数
func (rl *RedisLimiter) GetCurrent(ctx context.Context, key string) (int, error) {
	current, err := rl.client.Get(ctx, rl.keyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取当前计数失败: %w", err)
	}
	return current, nil
}

// GetLimit 获取上限
func (rl *RedisLimiter) GetLimit() int {
	return rl.limit
}
