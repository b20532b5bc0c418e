package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"tripcraft/internal/app"
)

// ItineraryCache keeps each user's saved-itinerary listing in Redis. The
// service invalidates the key on every save, so a short TTL is enough.
type ItineraryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewItineraryCache(client *redisv9.Client, ttl time.Duration) *ItineraryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ItineraryCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ItineraryCache) Get(ctx context.Context, userID uint) ([]app.SavedItinerary, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get saved itineraries failed: %w", err)
	}

	var items []app.SavedItinerary
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached itineraries failed: %w", err)
	}
	return items, true, nil
}

func (c *ItineraryCache) Set(ctx context.Context, userID uint, items []app.SavedItinerary) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal itinerary cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set saved itineraries failed: %w", err)
	}
	return nil
}

func (c *ItineraryCache) Delete(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete saved itineraries failed: %w", err)
	}
	return nil
}

func (c *ItineraryCache) key(userID uint) string {
	return fmt.Sprintf("itinerary:saved:%d", userID)
}
