// Package config loads qmap settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/qmap/config.toml (~/.config/qmap on
// most systems) unless a path is given explicitly. Every section is
// optional; missing values take the defaults of [Default]. Command-line
// flags override file values.
//
//	[allocator]
//	name = "bmt-topk"
//	top_k = 8
//
//	[costs]
//	swap = 7
//	reversal = 4
//
//	[cache]
//	type = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/qmap/pkg/allocators"
	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/errors"
)

const appName = "qmap"

// Cache backends.
const (
	CacheFile  = "file"
	CacheNull  = "null"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// DefaultAddr is the API listen address.
const DefaultAddr = ":8080"

// Config is the parsed configuration file.
type Config struct {
	Allocator Allocator     `toml:"allocator"`
	Costs     bmt.CostModel `toml:"costs"`
	Cache     Cache         `toml:"cache"`
	Server    Server        `toml:"server"`
}

// Allocator selects and tunes the allocator.
type Allocator struct {
	Name        string `toml:"name"`
	MaxChildren int    `toml:"max_children"`
	MaxPartial  int    `toml:"max_partial"`
	Seed        uint64 `toml:"seed"`
	TopK        int    `toml:"top_k"`
}

// Cache selects the solution cache backend.
type Cache struct {
	Type     string        `toml:"type"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// Server configures `qmap serve`.
type Server struct {
	Addr       string `toml:"addr"`
	Store      string `toml:"store"`
	StoreDir   string `toml:"store_dir"`
	MongoURI   string `toml:"mongo_uri"`
	MongoDB    string `toml:"mongo_database"`
	Collection string `toml:"mongo_collection"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Allocator: Allocator{
			Name:        allocators.DefaultAllocator,
			MaxChildren: allocators.DefaultMaxChildren,
			MaxPartial:  allocators.DefaultMaxPartial,
			Seed:        allocators.DefaultSeed,
		},
		Costs:  bmt.DefaultCostModel(),
		Cache:  Cache{Type: CacheFile, TTL: cache.TTLSolution},
		Server: Server{Addr: DefaultAddr, Store: StoreMemory},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/qmap).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DataDir returns the default directory of the file store
// (~/.local/share/qmap).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Load reads the file at path. An empty path reads the default location,
// where a missing file yields the defaults; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Allocator.Name == "" {
		c.Allocator.Name = allocators.DefaultAllocator
	}
	c.Costs.SetDefaults()
	if c.Cache.Type == "" {
		c.Cache.Type = CacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = cache.TTLSolution
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Store == "" {
		c.Server.Store = StoreMemory
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := errors.ValidateName(c.Allocator.Name); err != nil {
		return err
	}
	s := c.Settings()
	if err := s.Validate(); err != nil {
		return err
	}

	switch c.Cache.Type {
	case CacheFile, CacheNull:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidOption, "cache.redis_url is required for the redis cache")
		}
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown cache type %q (must be file, null or redis)", c.Cache.Type)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache.ttl must be >= 0, got %s", c.Cache.TTL)
	}

	switch c.Server.Store {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Server.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidOption, "server.mongo_uri is required for the mongo store")
		}
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown store %q (must be memory, file or mongo)", c.Server.Store)
	}
	return nil
}

// Settings returns the allocator settings of c.
func (c *Config) Settings() allocators.Settings {
	return allocators.Settings{
		MaxChildren: c.Allocator.MaxChildren,
		MaxPartial:  c.Allocator.MaxPartial,
		Costs:       c.Costs,
		Seed:        c.Allocator.Seed,
		TopK:        c.Allocator.TopK,
	}
}
