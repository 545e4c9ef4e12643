package config

import (
	"github.com/pkg/errors"

	"github.com/go-watchlist/watchlist/storage"
)

type securityConf struct {
	PasswordHashing storage.Argon2idParams `yaml:"password_hashing"`
	// LoginRateLimit is the number of login attempts per client ip and
	// minute, 0 disables the limit
	LoginRateLimit int `yaml:"login_rate_limit"`
}

func (c *securityConf) validate() error {
	if c.LoginRateLimit < 0 {
		return errors.New("login_rate_limit must not be negative")
	}
	p := c.PasswordHashing
	if p.Time == 0 || p.MemoryKiB == 0 || p.Parallelism == 0 {
		return errors.New("password_hashing: time, memory_kib and parallelism must be positive")
	}
	if p.KeyLen < 16 || p.SaltLen < 8 {
		return errors.New("password_hashing: key_len must be at least 16 and salt_len at least 8")
	}
	return nil
}

var defaultSecurityConf = securityConf{
	PasswordHashing: storage.Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      32,
		SaltLen:     16,
	},
	LoginRateLimit: 10,
}
