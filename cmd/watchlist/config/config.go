// Package config loads the yaml configuration of the watchlist server
package config

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"

	"github.com/go-watchlist/watchlist"
)

// Config holds the configuration for the watchlist server
type Config struct {
	Server   watchlist.ServerConf `yaml:"server"`
	Storage  storageConf          `yaml:"storage"`
	Sessions sessionsConf         `yaml:"sessions"`
	Security securityConf         `yaml:"security"`
	Logging  LoggingConf          `yaml:"logging"`
}

var conf *Config

var possibleConfigLocations = []string{
	"config.yaml",
	"/config/config.yaml",
	"/etc/watchlist/config.yaml",
}

// Get returns the loaded Config
func Get() Config {
	if conf == nil {
		c := defaultConfig()
		return c
	}
	return *conf
}

func defaultConfig() Config {
	return Config{
		Server: watchlist.ServerConf{
			Port: 5000,
		},
		Storage:  defaultStorageConf,
		Sessions: defaultSessionsConf,
		Security: defaultSecurityConf,
		Logging:  defaultLoggingConf,
	}
}

func (c *Config) validate() error {
	if err := c.Storage.validate(); err != nil {
		return errors.Wrap(err, "error in storage conf")
	}
	if err := c.Sessions.validate(); err != nil {
		return errors.Wrap(err, "error in sessions conf")
	}
	if err := c.Security.validate(); err != nil {
		return errors.Wrap(err, "error in security conf")
	}
	if err := c.Logging.validate(); err != nil {
		return errors.Wrap(err, "error in logging conf")
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.Cert == "" || c.Server.TLS.Key == "") {
		return errors.New("error in server conf: tls enabled but cert or key not set")
	}
	return nil
}

// LoadData parses and validates the passed yaml data and sets it as the
// current Config
func LoadData(data []byte) error {
	c := defaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return errors.WithStack(err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	conf = &c
	return nil
}

// findConfigFile returns filename if set, otherwise the first existing file
// of possibleConfigLocations
func findConfigFile(filename string) (string, error) {
	if filename != "" {
		return filename, nil
	}
	for _, f := range possibleConfigLocations {
		if fileutils.FileExists(f) {
			return f, nil
		}
	}
	return "", errors.New("could not find config file in any of the possible locations")
}

// Load reads the config file and validates it. It terminates the process if
// the config cannot be loaded.
func Load(filename string) {
	if err := LoadFile(filename); err != nil {
		log.WithError(err).Fatal("could not load config")
	}
}

// LoadFile reads the config from filename, or from one of the default
// locations if filename is empty
func LoadFile(filename string) error {
	f, err := findConfigFile(filename)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(f)
	if err != nil {
		return errors.WithStack(err)
	}
	return LoadData(data)
}
