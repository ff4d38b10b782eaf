package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/store"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Allocator.Name != "bmt" || c.Allocator.Seed != 42 {
		t.Errorf("Allocator = %+v", c.Allocator)
	}
	if c.Allocator.MaxChildren <= 0 || c.Allocator.MaxPartial <= 0 {
		t.Errorf("limits = %d/%d, want bounded defaults", c.Allocator.MaxChildren, c.Allocator.MaxPartial)
	}
	if c.Costs.SwapWeight != 7 || c.Costs.ReversalWeight != 4 || c.Costs.EstimateWeight != 1 {
		t.Errorf("Costs = %+v", c.Costs)
	}
	if c.Cache.Type != CacheFile || c.Server.Store != StoreMemory || c.Server.Addr != DefaultAddr {
		t.Errorf("Cache, Server = %+v, %+v", c.Cache, c.Server)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[allocator]
name = "bmt-topk"
max_partial = 64
top_k = 8

[costs]
swap = 10

[cache]
type = "redis"
redis_url = "redis://localhost:6379/1"
ttl = "72h"

[server]
addr = "127.0.0.1:9000"
store = "mongo"
mongo_uri = "mongodb://localhost:27017"
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Allocator.Name != "bmt-topk" || c.Allocator.MaxPartial != 64 || c.Allocator.TopK != 8 {
		t.Errorf("Allocator = %+v", c.Allocator)
	}
	if c.Allocator.Seed != 42 {
		t.Errorf("Seed = %d, want default 42", c.Allocator.Seed)
	}
	if c.Costs.SwapWeight != 10 || c.Costs.ReversalWeight != 4 {
		t.Errorf("Costs = %+v, want swap 10 and default reversal", c.Costs)
	}
	if c.Cache.TTL != 72*time.Hour {
		t.Errorf("TTL = %s, want 72h", c.Cache.TTL)
	}
	if c.Server.Addr != "127.0.0.1:9000" || c.Server.Store != StoreMongo {
		t.Errorf("Server = %+v", c.Server)
	}

	s := c.Settings()
	if s.MaxPartial != 64 || s.TopK != 8 || s.Costs.SwapWeight != 10 {
		t.Errorf("Settings = %+v", s)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "[allocator\nname=", errors.ErrCodeInvalidFormat},
		{"unknown key", "[allocator]\ncolour = \"red\"", errors.ErrCodeInvalidOption},
		{"negative limit", "[allocator]\nmax_children = -1", errors.ErrCodeInvalidOption},
		{"bad name", "[allocator]\nname = \"b m t\"", errors.ErrCodeInvalidName},
		{"negative weight", "[costs]\nswap = -2", errors.ErrCodeInvalidOption},
		{"cache type", "[cache]\ntype = \"memcached\"", errors.ErrCodeInvalidOption},
		{"redis without url", "[cache]\ntype = \"redis\"", errors.ErrCodeInvalidOption},
		{"store type", "[server]\nstore = \"postgres\"", errors.ErrCodeInvalidOption},
		{"mongo without uri", "[server]\nstore = \"mongo\"", errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file yields defaults.
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if c.Allocator.Name != "bmt" {
		t.Errorf("Allocator.Name = %q, want bmt", c.Allocator.Name)
	}

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "qmap", "config.toml"); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[allocator]\nname = \"bmt-exact\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if c.Allocator.Name != "bmt-exact" {
		t.Errorf("Allocator.Name = %q, want bmt-exact", c.Allocator.Name)
	}

	// An explicit path must exist.
	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	if dir, _ := CacheDir(); dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("CacheDir() = %q", dir)
	}
	if dir, _ := DataDir(); dir != filepath.Join("/tmp/xdg-data", appName) {
		t.Errorf("DataDir() = %q", dir)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	c := Default()
	c.Cache.Dir = t.TempDir()

	got, err := c.OpenCache(ctx, false)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	fc, ok := got.(*cache.FileCache)
	if !ok {
		t.Fatalf("OpenCache() = %T, want *cache.FileCache", got)
	}
	if fc.Dir() != c.Cache.Dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), c.Cache.Dir)
	}

	got, _ = c.OpenCache(ctx, true)
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("OpenCache(noCache) = %T, want cache.NullCache", got)
	}

	c.Cache.Type = CacheNull
	got, _ = c.OpenCache(ctx, false)
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("OpenCache(null) = %T, want cache.NullCache", got)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	c := Default()

	got, err := c.OpenStore(ctx)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, ok := got.(*store.Memory); !ok {
		t.Errorf("OpenStore() = %T, want *store.Memory", got)
	}

	c.Server.Store = StoreFile
	c.Server.StoreDir = t.TempDir()
	got, err = c.OpenStore(ctx)
	if err != nil {
		t.Fatalf("OpenStore(file): %v", err)
	}
	fs, ok := got.(*store.FileStore)
	if !ok {
		t.Fatalf("OpenStore(file) = %T, want *store.FileStore", got)
	}
	if fs.Path() != c.Server.StoreDir {
		t.Errorf("Path() = %q, want %q", fs.Path(), c.Server.StoreDir)
	}
}
