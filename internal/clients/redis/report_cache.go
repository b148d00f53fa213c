package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/types"
	"github.com/classbridge/classbridge-backend/internal/utils"
)

// ReportCache stores finished activity window reports in redis so the
// expensive window fold runs once per closed window.
type ReportCache struct {
	log    *logger.Logger
	client *redis.Client
}

func NewClient(log *logger.Logger) *redis.Client {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := utils.GetEnv("REDIS_PASSWORD", "", log)
	db := utils.GetEnvAsInt("REDIS_DB", 0, log)
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewReportCache(client *redis.Client, baseLog *logger.Logger) *ReportCache {
	return &ReportCache{
		log:    baseLog.With("client", "ReportCache"),
		client: client,
	}
}

func reportKey(userID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("activity_report:%s:%d:%d", userID, start.Unix(), end.Unix())
}

func (c *ReportCache) Get(ctx context.Context, userID uuid.UUID, start, end time.Time) (*types.ActivityWindowReport, bool) {
	raw, err := c.client.Get(ctx, reportKey(userID, start, end)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Report cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var report types.ActivityWindowReport
	if err := json.Unmarshal(raw, &report); err != nil {
		c.log.Warn("Report cache entry was malformed, dropping it", "user_id", userID, "error", err)
		c.client.Del(ctx, reportKey(userID, start, end))
		return nil, false
	}
	return &report, true
}

func (c *ReportCache) Set(ctx context.Context, report *types.ActivityWindowReport, ttl time.Duration) {
	if report == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	key := reportKey(report.UserID, report.WindowStart, report.WindowEnd)
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("Report cache write failed", "user_id", report.UserID, "error", err)
	}
}
