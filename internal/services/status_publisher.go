package services

import (
	"context"
	"encoding/json"

	"github.com/recrutai/platform/internal/models"
	"github.com/redis/go-redis/v9"
)

// StatusPublisher fans out company connection status changes to listeners
// such as the status websocket.
type StatusPublisher interface {
	PublishLinkStatus(ctx context.Context, st models.ExternalLinkStatus) error
}

// LinkStatusChannel is the pub/sub channel carrying a company's status.
func LinkStatusChannel(companyID string) string {
	return "company:" + companyID + ":external"
}

type LinkStatusMessage struct {
	Type string `json:"type"`
	models.ExternalLinkStatus
}

type redisStatusPublisher struct {
	rdb *redis.Client
}

func NewRedisStatusPublisher(rdb *redis.Client) StatusPublisher {
	return &redisStatusPublisher{rdb: rdb}
}

func (p *redisStatusPublisher) PublishLinkStatus(ctx context.Context, st models.ExternalLinkStatus) error {
	b, err := json.Marshal(LinkStatusMessage{Type: "status", ExternalLinkStatus: st})
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, LinkStatusChannel(st.CompanyID), b).Err()
}
