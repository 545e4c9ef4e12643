// Package watchlist wires the web ui into a fiber server
package watchlist

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/api/webui"
	"github.com/go-watchlist/watchlist/controller"
	"github.com/go-watchlist/watchlist/internal/version"
)

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	Network:        "tcp",
}

// Watchlist is the watchlist web application
type Watchlist struct {
	server     *fiber.App
	serverConf ServerConf
}

// NewWatchlist creates a new Watchlist serving the web ui for env
func NewWatchlist(serverConf ServerConf, env *controller.Env, web webui.Options) *Watchlist {
	cfg := FiberServerConfig
	cfg.ErrorHandler = handleError(env, web.CookieName)
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		cfg.TrustedProxies = tps
		cfg.EnableTrustedProxyCheck = true
	}
	cfg.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(cfg)
	server.Use(recover.New())
	server.Use(compress.New())
	server.Use(requestid.New())
	if serverConf.AccessLog != nil {
		server.Use(
			logger.New(
				logger.Config{
					Format: "${time} ${ip} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
					Output: serverConf.AccessLog,
				},
			),
		)
	}
	server.Use(
		func(ctx *fiber.Ctx) error {
			ctx.Set("X-Watchlist-Version", version.VERSION)
			return ctx.Next()
		},
	)
	webui.Register(server, env, web)
	return &Watchlist{
		server:     server,
		serverConf: serverConf,
	}
}

// HttpHandlerFunc returns an http.HandlerFunc for serving all the necessary endpoints
func (w *Watchlist) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(w.server)
}

// Listen starts an http server at the specific address for serving all the
// necessary endpoints
func (w *Watchlist) Listen(addr string) error {
	return w.server.Listen(addr)
}

// Shutdown gracefully stops the server
func (w *Watchlist) Shutdown() error {
	return w.server.Shutdown()
}

func (w *Watchlist) addr(port int) string {
	return net.JoinHostPort(w.serverConf.IPListen, strconv.Itoa(port))
}

// Start serves plain http on the configured port, or https on 443 if TLS is
// enabled. It only returns if the server fails.
func (w *Watchlist) Start() {
	conf := w.serverConf
	log.WithField("version", version.VERSION).Info("starting watchlist")
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		log.WithError(w.server.Listen(w.addr(conf.Port))).Fatal()
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(w.addr(80))).Fatal()
		}()
	}
	time.Sleep(time.Millisecond) // This is just for a more pretty output with the tls header printed after the http one
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(w.server.ListenTLS(w.addr(443), conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
