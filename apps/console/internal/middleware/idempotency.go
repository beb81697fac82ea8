package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader lets a caller safely retry a submission
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// IdempotencyKeyPrefix namespaces replay records in Redis
	IdempotencyKeyPrefix = "storefront:console:idempotency:"

	DefaultReplayTTL     = 10 * time.Minute
	DefaultProcessingTTL = 60 * time.Second
)

// ReplayStatus is the state of a replay record
type ReplayStatus string

const (
	ReplayProcessing ReplayStatus = "processing"
	ReplayCompleted  ReplayStatus = "completed"
)

// ReplayRecord is the stored outcome of one keyed submission
type ReplayRecord struct {
	Status       ReplayStatus `json:"status"`
	RequestHash  string       `json:"request_hash"`
	ResponseCode int          `json:"response_code"`
	ResponseBody string       `json:"response_body"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ReplayStore is the subset of the Redis client the replay guard needs
type ReplayStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig configures the replay guard
type IdempotencyConfig struct {
	Store         ReplayStore
	TTL           time.Duration
	ProcessingTTL time.Duration
	Logger        *logger.Logger
}

// Idempotency replays the stored response of a submission retried with the
// same X-Idempotency-Key. Requests without the header pass straight through.
// Only 2xx outcomes are kept so a failed checkout can be retried.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultReplayTTL
	}
	if cfg.ProcessingTTL <= 0 {
		cfg.ProcessingTTL = DefaultProcessingTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		ctx := c.Request.Context()
		redisKey := IdempotencyKeyPrefix + key
		hash := requestHash(c, body)

		existing, err := loadReplay(ctx, cfg.Store, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			// Redis unavailable: the in-process checkout guard still applies
			cfg.Logger.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if existing != nil {
			replay(c, existing, hash)
			return
		}

		record := &ReplayRecord{Status: ReplayProcessing, RequestHash: hash, CreatedAt: time.Now()}
		if !storeReplay(ctx, cfg.Store, redisKey, record, cfg.ProcessingTTL, true) {
			if existing, _ = loadReplay(ctx, cfg.Store, redisKey); existing != nil {
				replay(c, existing, hash)
				return
			}
		}

		rw := &replayWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = rw

		c.Next()

		status := rw.Status()
		if status < 200 || status > 299 {
			_ = cfg.Store.Del(ctx, redisKey).Err()
			return
		}
		record.Status = ReplayCompleted
		record.ResponseCode = status
		record.ResponseBody = rw.body.String()
		storeReplay(ctx, cfg.Store, redisKey, record, cfg.TTL, false)
	}
}

func replay(c *gin.Context, rec *ReplayRecord, hash string) {
	switch {
	case rec.RequestHash != hash:
		response.Error(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED", "Idempotency key already used with a different request", "")
	case rec.Status == ReplayProcessing:
		response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "A request with this idempotency key is already being processed", "")
	default:
		c.Data(rec.ResponseCode, "application/json; charset=utf-8", []byte(rec.ResponseBody))
	}
	c.Abort()
}

// GetIdempotencyKey returns the key of the current request, if any
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetHeader(IdempotencyKeyHeader)
	return key, key != ""
}

type replayWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *replayWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *replayWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// requestHash binds a key to method, path, session user and body
func requestHash(c *gin.Context, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	if userID, ok := GetUserID(c); ok {
		h.Write([]byte(userID))
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func loadReplay(ctx context.Context, store ReplayStore, key string) (*ReplayRecord, error) {
	raw, err := store.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var rec ReplayRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func storeReplay(ctx context.Context, store ReplayStore, key string, rec *ReplayRecord, ttl time.Duration, onlyNew bool) bool {
	data, err := json.Marshal(rec)
	if err != nil {
		return false
	}
	if onlyNew {
		ok, err := store.SetNX(ctx, key, string(data), ttl).Result()
		return err == nil && ok
	}
	return store.Set(ctx, key, string(data), ttl).Err() == nil
}
