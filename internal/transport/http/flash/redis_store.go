package flash

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	idCookieName   = "paperlens_flash_id"
	idContextKey   = "flash_browser_id"
	idCookieMaxAge = 30 * 24 * 60 * 60
)

// MessageQueue is implemented by cache.FlashCache.
type MessageQueue interface {
	Push(ctx context.Context, id string, messages ...string) error
	Pop(ctx context.Context, id string) ([]string, error)
}

// RedisStore keeps messages server side, keyed by a random browser id cookie,
// so every instance behind a load balancer sees them.
type RedisStore struct {
	queue MessageQueue
}

func NewRedisStore(queue MessageQueue) *RedisStore {
	return &RedisStore{queue: queue}
}

func (s *RedisStore) Add(c *gin.Context, message string) error {
	return s.queue.Push(c.Request.Context(), s.browserID(c, true), message)
}

func (s *RedisStore) Pop(c *gin.Context) ([]string, error) {
	id := s.browserID(c, false)
	if id == "" {
		return nil, nil
	}
	return s.queue.Pop(c.Request.Context(), id)
}

func (s *RedisStore) browserID(c *gin.Context, create bool) string {
	if id := c.GetString(idContextKey); id != "" {
		return id
	}
	if raw, err := c.Cookie(idCookieName); err == nil {
		if parsed, err := uuid.Parse(raw); err == nil {
			c.Set(idContextKey, parsed.String())
			return parsed.String()
		}
	}
	if !create {
		return ""
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(idCookieName, id, idCookieMaxAge, "/", "", false, true)
	c.Set(idContextKey, id)
	return id
}
