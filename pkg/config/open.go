package config

import (
	"context"

	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/store"
)

// OpenCache builds the configured cache. noCache forces a NullCache.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Cache.Type == CacheNull {
		return cache.NewNullCache(), nil
	}
	if c.Cache.Type == CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.Cache.RedisURL, Prefix: c.Cache.Prefix})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// OpenStore builds the configured record store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Server.Store {
	case StoreFile:
		dir := c.Server.StoreDir
		if dir == "" {
			d, err := DataDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case StoreMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Server.MongoURI,
			Database:   c.Server.MongoDB,
			Collection: c.Server.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return store.NewMemory(), nil
}
