package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// inFlightWindow bounds the lock so a crashed request cannot wedge the key.
const inFlightWindow = 30 * time.Second

// Idempotency deduplicates POSTs carrying an Idempotency-Key header. The
// first request takes a short lock; a replay of a finished request gets the
// cached response, a replay of an in-flight request gets 409.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// The key includes the caller so two companies reusing the same
		// client-generated key never collide.
		email := c.GetString("email")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), email, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached any
			json.Unmarshal([]byte(val), &cached)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true, "data": cached})
			return
		}

		acquired, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", inFlightWindow).Result()
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Your request is still being processed, please wait.",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
