package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyBaseURL       = "api.base_url"
	KeyTimeout       = "api.timeout"
	KeyCacheBackend  = "cache.backend"
	KeyCacheKey      = "cache.key"
	KeyCacheDebounce = "cache.debounce"
	KeyCachePrefix   = "cache.prefix"
	KeyCacheTTL      = "cache.ttl"
	KeyDatabasePath  = "database.path"
	KeyRedisAddress  = "redis.address"
	KeyRedisPassword = "redis.password"
	KeyRedisDB       = "redis.db"
	KeyDefaultSeats  = "dates.default_seats"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	KeyTheme         = "ui.theme"
)

// Settings is the resolved configuration of one run.
type Settings struct {
	BaseURL       string
	CacheBackend  string
	CacheKey      string
	CachePrefix   string
	DatabasePath  string
	RedisAddress  string
	RedisPassword string
	LogLevel      string
	LogFormat     string
	Theme         string
	Timeout       time.Duration
	Debounce      time.Duration
	CacheTTL      time.Duration
	RedisDB       int
	DefaultSeats  int
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "http://localhost:5000")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyCacheBackend, storage.DriverSQLite)
	v.SetDefault(KeyCacheKey, draft.DefaultCacheKey)
	v.SetDefault(KeyCacheDebounce, draft.DefaultDebounce)
	v.SetDefault(KeyCachePrefix, "offers:")
	v.SetDefault(KeyCacheTTL, time.Duration(0))
	v.SetDefault(KeyDatabasePath, "$HOME/.local/share/offers/offers.db")
	v.SetDefault(KeyRedisAddress, "localhost:6379")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyDefaultSeats, dates.DefaultSeats)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyTheme, "default")
}

// Load reads and checks the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		BaseURL:       v.GetString(KeyBaseURL),
		Timeout:       v.GetDuration(KeyTimeout),
		CacheBackend:  v.GetString(KeyCacheBackend),
		CacheKey:      v.GetString(KeyCacheKey),
		Debounce:      v.GetDuration(KeyCacheDebounce),
		CachePrefix:   v.GetString(KeyCachePrefix),
		CacheTTL:      v.GetDuration(KeyCacheTTL),
		DatabasePath:  ExpandPath(v.GetString(KeyDatabasePath)),
		RedisAddress:  v.GetString(KeyRedisAddress),
		RedisPassword: v.GetString(KeyRedisPassword),
		RedisDB:       v.GetInt(KeyRedisDB),
		DefaultSeats:  v.GetInt(KeyDefaultSeats),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
		Theme:         v.GetString(KeyTheme),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports the first unusable setting.
func (s Settings) Validate() error {
	if u, err := url.Parse(s.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", common.ErrInvalidConfig, KeyBaseURL, s.BaseURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyTimeout)
	}
	if s.Debounce <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyCacheDebounce)
	}
	if s.CacheKey == "" {
		return fmt.Errorf("%w: %s must not be empty", common.ErrInvalidConfig, KeyCacheKey)
	}
	if s.DefaultSeats < 1 {
		return fmt.Errorf("%w: %s must be at least 1", common.ErrInvalidConfig, KeyDefaultSeats)
	}

	switch s.CacheBackend {
	case storage.DriverSQLite:
		if s.DatabasePath == "" {
			return fmt.Errorf("%w: %s must be set for the sqlite cache", common.ErrInvalidConfig, KeyDatabasePath)
		}
	case storage.DriverRedis:
		if s.RedisAddress == "" {
			return fmt.Errorf("%w: %s must be set for the redis cache", common.ErrInvalidConfig, KeyRedisAddress)
		}
	case storage.DriverMemory:
	default:
		return fmt.Errorf("%w: unknown %s %q", common.ErrInvalidConfig, KeyCacheBackend, s.CacheBackend)
	}

	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// StorageOptions describes the cache store these settings select.
func (s Settings) StorageOptions() storage.Options {
	return storage.Options{
		Driver:     s.CacheBackend,
		SQLitePath: s.DatabasePath,
		Redis: storage.RedisConfig{
			Address:   s.RedisAddress,
			Password:  s.RedisPassword,
			DB:        s.RedisDB,
			KeyPrefix: s.CachePrefix,
			TTL:       s.CacheTTL,
		},
	}
}

// LoadDotEnv loads environment variables from .env files. Missing files are
// skipped; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(ExpandPath(p))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
