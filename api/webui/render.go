package webui

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/pkg/errors"

	"github.com/go-watchlist/watchlist/controller"
)

//go:embed templates
var templateFS embed.FS

// Page names
const (
	pageIndex    = "index"
	pageEdit     = "edit"
	pageLogin    = "login"
	pageSettings = "settings"
)

var pages = parsePages(
	pageIndex, pageEdit, pageLogin, pageSettings,
	"errors/400", "errors/404", "errors/500", "errors/generic",
)

func parsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(
			template.New(name).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html"),
		)
	}
	return parsed
}

type pageData struct {
	controller.Layout
	Notices []string
	Body    any
}

type errorBody struct {
	Code    int
	Message string
}

func renderPage(c *fiber.Ctx, status int, page string, data pageData) error {
	t, ok := pages[page]
	if !ok {
		return errors.Errorf("unknown page '%s'", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return errors.Wrapf(err, "could not render page '%s'", page)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func errorPage(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "errors/400"
	case fiber.StatusNotFound:
		return "errors/404"
	case fiber.StatusInternalServerError:
		return "errors/500"
	default:
		return "errors/generic"
	}
}

// RenderError writes the error page for code
func RenderError(c *fiber.Ctx, env *controller.Env, cookieName string, code int) error {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	data := pageData{
		Layout: env.Layout(controller.Request{Token: c.Cookies(cookieName)}),
		Body: errorBody{
			Code:    code,
			Message: utils.StatusMessage(code),
		},
	}
	if err := renderPage(c, code, errorPage(code), data); err != nil {
		return c.Status(code).SendString(utils.StatusMessage(code))
	}
	return nil
}

// ErrorHandler returns a fiber.ErrorHandler rendering the error pages
func ErrorHandler(env *controller.Env, cookieName string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		return RenderError(c, env, cookieName, code)
	}
}
