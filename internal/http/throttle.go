package http

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Login attempts are throttled per handle and client address. With no
// redis client configured the throttle is disabled and every attempt
// is allowed.

func throttleKey(handle, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", handle, ip)
}

func (s *Server) allowLoginAttempt(ctx context.Context, handle, ip string) (bool, error) {
	if s.redis == nil {
		return true, nil
	}

	count, err := s.redis.Get(ctx, throttleKey(handle, ip)).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		log.Printf("login throttle check failed: %v", err)
		return true, err
	}
	return count < s.cfg.LoginThrottleLimit, nil
}

func (s *Server) recordLoginFailure(ctx context.Context, handle, ip string) {
	if s.redis == nil {
		return
	}

	key := throttleKey(handle, ip)
	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("login throttle increment failed: %v", err)
		return
	}
	if count == 1 {
		if err := s.redis.Expire(ctx, key, s.cfg.LoginThrottleWindow).Err(); err != nil {
			log.Printf("login throttle expire failed: %v", err)
		}
	}
}
