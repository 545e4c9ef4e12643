package config

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/duration"

	"github.com/go-watchlist/watchlist/api/webui"
	"github.com/go-watchlist/watchlist/session"
	"github.com/go-watchlist/watchlist/storage"
)

type sessionBackend string

// Possible session backends
const (
	SessionBackendMemory sessionBackend = "memory"
	SessionBackendDB     sessionBackend = "db"
	SessionBackendRedis  sessionBackend = "redis"
	SessionBackendBadger sessionBackend = "badger"
)

type sessionsConf struct {
	Backend        sessionBackend          `yaml:"backend"`
	CookieName     string                  `yaml:"cookie_name"`
	SecureCookie   bool                    `yaml:"secure_cookie"`
	Lifetime       duration.DurationOption `yaml:"lifetime"`
	NoticeLifetime duration.DurationOption `yaml:"notice_lifetime"`
	RedisAddr      string                  `yaml:"redis_addr"`
	Username       string                  `yaml:"username"`
	Password       string                  `yaml:"password"`
	RedisDB        int                     `yaml:"redis_db"`
	BadgerDir      string                  `yaml:"badger_dir"`
}

func (c *sessionsConf) validate() error {
	switch c.Backend {
	case SessionBackendMemory, SessionBackendDB:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("redis backend requires redis_addr")
		}
	case SessionBackendBadger:
		if c.BadgerDir == "" {
			return errors.New("badger backend requires badger_dir")
		}
	default:
		return errors.Errorf("unknown session backend '%s'", c.Backend)
	}
	if c.CookieName == "" {
		c.CookieName = webui.DefaultCookieName
	}
	if c.Lifetime.Duration() <= 0 {
		return errors.New("lifetime must be positive")
	}
	if c.NoticeLifetime.Duration() <= 0 {
		return errors.New("notice_lifetime must be positive")
	}
	return nil
}

var defaultSessionsConf = sessionsConf{
	Backend:        SessionBackendMemory,
	CookieName:     webui.DefaultCookieName,
	Lifetime:       duration.DurationOption(24 * time.Hour),
	NoticeLifetime: duration.DurationOption(session.DefaultNoticeLifetime),
}

// NewSessionStorage creates the storage session records, notices and login
// limiter counters are kept in. The db backend uses store.
func NewSessionStorage(c sessionsConf, store *storage.Storage) (fiber.Storage, error) {
	var s fiber.Storage
	var err error
	switch c.Backend {
	case SessionBackendMemory:
		s, err = session.NewMemoryStorage()
	case SessionBackendDB:
		s = store.SessionStorage()
	case SessionBackendRedis:
		s, err = session.NewRedisStorage(
			&redis.Options{
				Addr:     c.RedisAddr,
				Username: c.Username,
				Password: c.Password,
				DB:       c.RedisDB,
			},
		)
	case SessionBackendBadger:
		s, err = session.NewBadgerStorage(c.BadgerDir)
	default:
		err = errors.Errorf("unknown session backend '%s'", c.Backend)
	}
	if err != nil {
		return nil, err
	}
	log.WithField("backend", c.Backend).Info("Loaded session backend")
	return s, nil
}
