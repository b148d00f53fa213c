package app

import (
	"context"

	"github.com/redis/go-redis/v9"

	redisclient "github.com/classbridge/classbridge-backend/internal/clients/redis"
	"github.com/classbridge/classbridge-backend/internal/clients/sendgrid"
	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/services"
)

type Clients struct {
	Redis       *redis.Client
	ReportCache *redisclient.ReportCache
	SendGrid    *sendgrid.Client
	AI          services.AIClient
	EssayGrader services.EssayGrader
}

func wireClients(ctx context.Context, log *logger.Logger) (*Clients, error) {
	redisClient := redisclient.NewClient(log)

	grader, err := services.NewVisionEssayGrader(ctx, log)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Redis:       redisClient,
		ReportCache: redisclient.NewReportCache(redisClient, log),
		SendGrid:    sendgrid.NewClient(log),
		AI:          services.NewOpenAIClient(log),
		EssayGrader: grader,
	}, nil
}

func (c *Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.EssayGrader != nil {
		_ = c.EssayGrader.Close()
	}
}
