package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist"
	"github.com/go-watchlist/watchlist/api/webui"
	"github.com/go-watchlist/watchlist/cmd/watchlist/config"
	"github.com/go-watchlist/watchlist/controller"
	"github.com/go-watchlist/watchlist/internal/logger"
	"github.com/go-watchlist/watchlist/session"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	logger.Init()
	log.Info("Loaded Config")
	c := config.Get()

	store, err := config.LoadStorage(c)
	if err != nil {
		log.WithError(err).Fatal("could not open storage")
	}
	sessionStore, err := config.NewSessionStorage(c.Sessions, store)
	if err != nil {
		log.WithError(err).Fatal("could not init session storage")
	}

	backs := store.Backends()
	if n, err := backs.Users.Count(); err == nil && n == 0 {
		log.Warn("no user provisioned yet, run 'wlcli admin' to create one")
	}
	env := &controller.Env{
		Sessions: session.NewManager(sessionStore, backs.Users, c.Sessions.Lifetime.Duration()),
		Movies:   backs.Movies,
		Users:    backs.Users,
	}

	serverConf := c.Server
	serverConf.AccessLog = logger.AccessLogWriter()
	wl := watchlist.NewWatchlist(
		serverConf, env, webui.Options{
			CookieName:     c.Sessions.CookieName,
			SecureCookie:   c.Sessions.SecureCookie,
			Notices:        session.NewNotices(sessionStore, c.Sessions.NoticeLifetime.Duration()),
			LoginRateLimit: c.Security.LoginRateLimit,
			LimiterStorage: sessionStore,
		},
	)
	log.Info("Initialized Watchlist")
	wl.Start()
}
