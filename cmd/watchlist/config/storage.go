package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/storage"
)

type storageConf struct {
	Driver          storage.DriverType `yaml:"driver"`
	DataDir         string             `yaml:"data_dir"`
	DSN             string             `yaml:"dsn"`
	storage.DSNConf `yaml:",inline"`
	Debug           bool `yaml:"debug"`
}

func (c *storageConf) validate() error {
	supported := false
	for _, d := range storage.SupportedDrivers {
		if c.Driver == d {
			supported = true
			break
		}
	}
	if !supported {
		return errors.Errorf("unsupported driver '%s'", c.Driver)
	}
	if c.Driver == storage.DriverSQLite {
		if c.DataDir == "" && c.DSN == "" {
			return errors.New("data_dir must be specified")
		}
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storageConf{
	Driver:  storage.DriverSQLite,
	DataDir: ".",
	DSNConf: storage.DSNConf{
		User: "watchlist",
		Host: "localhost",
		DB:   "watchlist",
	},
}

// LoadStorage opens the configured database
func LoadStorage(c Config) (*storage.Storage, error) {
	store, err := storage.NewStorage(
		storage.Config{
			Driver:    c.Storage.Driver,
			DSN:       c.Storage.DSN,
			DataDir:   c.Storage.DataDir,
			Debug:     c.Storage.Debug,
			UsersHash: c.Security.PasswordHashing,
		},
	)
	if err != nil {
		return nil, err
	}
	log.WithField("driver", c.Storage.Driver).Info("Loaded storage backend")
	return store, nil
}
