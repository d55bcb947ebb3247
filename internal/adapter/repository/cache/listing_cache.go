package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	listingKeyPrefix = "listing:"
	listingTTL       = 5 * time.Minute
)

// ListingCache implements domain.ListingCache on Redis with a short TTL.
// A cache miss is reported as domain.ErrNotFound.
type ListingCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewListingCache creates the cache and verifies the Redis connection.
func NewListingCache(ctx context.Context, addr, password string, log *logger.Logger) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info("Connected to Redis", zap.String("addr", addr))
	return &ListingCache{
		client: client,
		logger: log.Named("ListingCache"),
	}, nil
}

// Get returns the cached listing or domain.ErrNotFound on a miss.
func (c *ListingCache) Get(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		c.logger.Warn("Redis get failed", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		c.logger.Warn("Failed to unmarshal cached listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return &listing, nil
}

// Set stores the listing under its hex ID.
func (c *ListingCache) Set(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	if err := c.client.Set(ctx, listingKeyPrefix+listing.ID.Hex(), data, listingTTL).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.Error(err), zap.String("listing_id", listing.ID.Hex()))
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry after an edit or delete.
func (c *ListingCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, listingKeyPrefix+id).Err(); err != nil {
		c.logger.Warn("Redis del failed", zap.Error(err), zap.String("listing_id", id))
		return fmt.Errorf("cache del failed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *ListingCache) Close() error {
	return c.client.Close()
}
