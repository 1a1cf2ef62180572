package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"clickpulse.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time the processing lock is held
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a completed response is replayable
	RetentionDuration = 24 * time.Hour
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes key-creating endpoints safe to retry.
// A request carrying an Idempotency-Key header is processed once; a
// retry with the same key replays the stored response instead of
// minting a second app or key. Storage keys are scoped per caller so
// two callers cannot collide.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		callerID, _ := GetCallerID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s", callerID, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == "processing" {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "Request already in progress",
					"code":  "ERR_IDEMPOTENCY_CONFLICT",
				})
				return
			}

			status, body := parseStoredResponse(val)
			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Hit", "true")
			c.String(status, body)
			c.Abort()
			return
		} else if !errors.Is(err, goredis.Nil) {
			// Redis being down must not block the request path.
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, "processing", LockDuration)
		if err != nil || !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "Request in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		// Only successful outcomes are replayable; failures release
		// the key so the caller can retry for real. The status rides
		// in front of the body so a replayed 201 stays a 201.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			stored := strconv.Itoa(c.Writer.Status()) + "\n" + w.body.String()
			_ = redisSet(ctx, storageKey, stored, RetentionDuration)
		} else {
			_ = redisDel(ctx, storageKey)
		}
	}
}

func parseStoredResponse(val string) (int, string) {
	head, body, found := strings.Cut(val, "\n")
	if !found {
		return http.StatusOK, val
	}
	status, err := strconv.Atoi(head)
	if err != nil {
		return http.StatusOK, val
	}
	return status, body
}
