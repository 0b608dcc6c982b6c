package flash

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const cookieName = "paperlens_flash"

type cookieClaims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// CookieStore keeps messages in an HS256-signed cookie. A cookie with a bad
// signature or past its expiry reads as empty.
type CookieStore struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieStore(secret string, ttl time.Duration) *CookieStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CookieStore{secret: []byte(secret), ttl: ttl}
}

func (s *CookieStore) Add(c *gin.Context, message string) error {
	messages := append(s.pending(c), message)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign flash cookie failed: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, signed, int(s.ttl.Seconds()), "/", "", false, true)
	c.Set(contextKey, messages)
	return nil
}

func (s *CookieStore) Pop(c *gin.Context) ([]string, error) {
	messages := s.pending(c)
	if _, err := c.Cookie(cookieName); err == nil {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
	}
	c.Set(contextKey, []string{})
	return messages, nil
}

func (s *CookieStore) pending(c *gin.Context) []string {
	if v, ok := c.Get(contextKey); ok {
		if messages, ok := v.([]string); ok {
			return messages
		}
	}

	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return nil
	}
	claims := &cookieClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims.Messages
}
