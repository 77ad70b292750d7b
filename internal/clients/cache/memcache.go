package cache

import (
	"strconv"
	"strings"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/logger"
)

const (
	defaultBase = 10
	// rendered cards go stale after a day even without an explicit invalidation
	cardTTLSeconds = 24 * 60 * 60
)

var cardThemes = []string{"light", "dark"}

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(userID, transactionID int64, theme string) string {
	return strings.Join([]string{
		"card",
		strconv.FormatInt(userID, defaultBase),
		strconv.FormatInt(transactionID, defaultBase),
		theme,
	}, ":")
}

func (mc *MemcacheClient) CacheCard(userID, transactionID int64, theme string, card []byte) error {
	logger.Debug("cache card", zap.Int64("userID", userID), zap.Int64("id", transactionID), zap.String("theme", theme))
	return mc.client.Set(&memcache.Item{
		Key:        formatKey(userID, transactionID, theme),
		Value:      card,
		Expiration: cardTTLSeconds,
	})
}

func (mc *MemcacheClient) GetCard(userID, transactionID int64, theme string) ([]byte, error) {
	item, err := mc.client.Get(formatKey(userID, transactionID, theme))
	if err != nil {
		return nil, err
	}
	logger.Debug("card served from cache", zap.Int64("userID", userID), zap.Int64("id", transactionID))
	return item.Value, nil
}

func (mc *MemcacheClient) InvalidateCards(userID, transactionID int64) error {
	logger.Info("invalidate cards", zap.Int64("userID", userID), zap.Int64("id", transactionID))

	for _, theme := range cardThemes {
		err := mc.client.Delete(formatKey(userID, transactionID, theme))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
