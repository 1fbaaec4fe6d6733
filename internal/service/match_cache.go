package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"orbit-server/internal/match"
)

const matchCacheTTL = 5 * time.Minute

// MatchCache guarda el feed de discovery ya rankeado por usuario. Cualquier
// escritura que afecte el score (perfil, quiz) debe invalidar la entrada.
type MatchCache interface {
	GetFeed(ctx context.Context, userID string) ([]match.RankedMatch, bool)
	SetFeed(ctx context.Context, userID string, feed []match.RankedMatch)
	Invalidate(ctx context.Context, userID string)
}

type redisMatchCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisMatchCache(client *redis.Client) MatchCache {
	if client == nil {
		return nil
	}
	return &redisMatchCache{
		client: client,
		prefix: "discover:feed:",
		ttl:    matchCacheTTL,
	}
}

func (c *redisMatchCache) GetFeed(ctx context.Context, userID string) ([]match.RankedMatch, bool) {
	if userID == "" {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		return nil, false
	}
	var feed []match.RankedMatch
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, false
	}
	return feed, true
}

func (c *redisMatchCache) SetFeed(ctx context.Context, userID string, feed []match.RankedMatch) {
	if userID == "" {
		return
	}
	raw, err := json.Marshal(feed)
	if err != nil {
		return
	}
	// Cache best-effort: un fallo de redis nunca afecta la respuesta.
	_ = c.client.Set(ctx, c.prefix+userID, raw, c.ttl).Err()
}

func (c *redisMatchCache) Invalidate(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	_ = c.client.Del(ctx, c.prefix+userID).Err()
}
