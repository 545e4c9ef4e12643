// Package webui serves the watchlist as server rendered html pages
package webui

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/controller"
	"github.com/go-watchlist/watchlist/session"
	"github.com/go-watchlist/watchlist/storage/model"
)

// DefaultCookieName is the session cookie name used if Options.CookieName
// is empty
const DefaultCookieName = "watchlist_session"

// Options controls the web ui registration
type Options struct {
	// CookieName is the name of the session cookie; notices use the same
	// name with a "_notices" suffix
	CookieName string
	// SecureCookie sets the secure flag on all cookies
	SecureCookie bool
	// Notices is the queue for one-shot messages
	Notices *session.Notices
	// LoginRateLimit is the number of login attempts per client and minute;
	// 0 disables the limit
	LoginRateLimit int
	// LimiterStorage keeps the login limiter counters; nil keeps them in
	// memory
	LimiterStorage fiber.Storage
}

type handler struct {
	env  *controller.Env
	opts Options
}

// Register mounts all web ui routes on r
func Register(r fiber.Router, env *controller.Env, opts Options) {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	h := &handler{
		env:  env,
		opts: opts,
	}

	r.Get(controller.PathIndex, h.index)
	r.Post(controller.PathIndex, h.create)
	r.Get("/movie/edit/:id<int>", h.edit)
	r.Post("/movie/edit/:id<int>", h.update)
	r.Post("/movie/delete/:id<int>", h.delete)

	r.Get(controller.PathLogin, h.loginForm)
	loginHandlers := []fiber.Handler{h.login}
	if opts.LoginRateLimit > 0 {
		loginHandlers = append(
			[]fiber.Handler{
				limiter.New(
					limiter.Config{
						Max:        opts.LoginRateLimit,
						Expiration: time.Minute,
						Storage:    opts.LimiterStorage,
						LimitReached: func(*fiber.Ctx) error {
							return fiber.ErrTooManyRequests
						},
					},
				),
			}, loginHandlers...,
		)
	}
	r.Post(controller.PathLogin, loginHandlers...)
	r.Get("/logout", h.logout)
	r.Get(controller.PathSettings, h.settings)
	r.Post(controller.PathSettings, h.updateSettings)
}

func (h *handler) request(c *fiber.Ctx) controller.Request {
	return controller.Request{Token: c.Cookies(h.opts.CookieName)}
}

func (h *handler) noticeCookieName() string {
	return h.opts.CookieName + "_notices"
}

func (h *handler) setCookie(c *fiber.Ctx, name, value string, lifetime time.Duration) {
	c.Cookie(
		&fiber.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Expires:  time.Now().Add(lifetime),
			Secure:   h.opts.SecureCookie,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		},
	)
}

func (h *handler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(
		&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Now().Add(-time.Hour),
			Secure:   h.opts.SecureCookie,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		},
	)
}

func (h *handler) pushNotices(c *fiber.Ctx, msgs ...string) {
	if h.opts.Notices == nil || len(msgs) == 0 {
		return
	}
	current := c.Cookies(h.noticeCookieName())
	id, err := h.opts.Notices.Push(current, msgs...)
	if err != nil {
		log.WithError(err).Error("could not store notices")
		return
	}
	if id != current {
		h.setCookie(c, h.noticeCookieName(), id, h.opts.Notices.Lifetime())
	}
}

func (h *handler) popNotices(c *fiber.Ctx) []string {
	if h.opts.Notices == nil {
		return nil
	}
	return h.opts.Notices.Pop(c.Cookies(h.noticeCookieName()))
}

// respond applies a controller.Result to the response
func (h *handler) respond(c *fiber.Ctx, req controller.Request, page string, res controller.Result) error {
	if res.ClearToken {
		h.clearCookie(c, h.opts.CookieName)
		req.Token = ""
	}
	if res.SetToken != "" {
		h.setCookie(c, h.opts.CookieName, res.SetToken, h.env.Sessions.Lifetime())
		req.Token = res.SetToken
	}
	if res.Redirect != "" {
		h.pushNotices(c, res.Notices...)
		return c.Redirect(res.Redirect, fiber.StatusFound)
	}
	if res.Err != nil {
		var notFound model.NotFoundError
		if errors.As(res.Err, &notFound) {
			return fiber.ErrNotFound
		}
		return res.Err
	}
	return h.render(c, req, page, res.Body)
}

func (h *handler) render(c *fiber.Ctx, req controller.Request, page string, body any) error {
	return renderPage(
		c, fiber.StatusOK, page, pageData{
			Layout:  h.env.Layout(req),
			Notices: h.popNotices(c),
			Body:    body,
		},
	)
}

// movieID returns the id route parameter; ids that cannot exist yield a 404
func movieID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// hasForm checks that all keys were submitted, possibly empty
func hasForm(c *fiber.Ctx, keys ...string) bool {
	args := c.Request().PostArgs()
	for _, k := range keys {
		if !args.Has(k) {
			return false
		}
	}
	return true
}
