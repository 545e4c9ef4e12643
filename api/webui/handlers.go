package webui

import (
	"github.com/gofiber/fiber/v2"
)

func (h *handler) index(c *fiber.Ctx) error {
	req := h.request(c)
	return h.respond(c, req, pageIndex, h.env.Index(req))
}

func (h *handler) create(c *fiber.Ctx) error {
	if !hasForm(c, "title", "year") {
		return fiber.ErrBadRequest
	}
	req := h.request(c)
	return h.respond(c, req, pageIndex, h.env.CreateMovie(req, c.FormValue("title"), c.FormValue("year")))
}

func (h *handler) edit(c *fiber.Ctx) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	req := h.request(c)
	return h.respond(c, req, pageEdit, h.env.EditMovie(req, id))
}

func (h *handler) update(c *fiber.Ctx) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	if !hasForm(c, "title", "year") {
		return fiber.ErrBadRequest
	}
	req := h.request(c)
	return h.respond(c, req, pageEdit, h.env.UpdateMovie(req, id, c.FormValue("title"), c.FormValue("year")))
}

func (h *handler) delete(c *fiber.Ctx) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	req := h.request(c)
	return h.respond(c, req, pageIndex, h.env.DeleteMovie(req, id))
}

func (h *handler) loginForm(c *fiber.Ctx) error {
	return h.render(c, h.request(c), pageLogin, nil)
}

func (h *handler) login(c *fiber.Ctx) error {
	if !hasForm(c, "username", "password") {
		return fiber.ErrBadRequest
	}
	req := h.request(c)
	return h.respond(c, req, pageLogin, h.env.Login(req, c.FormValue("username"), c.FormValue("password")))
}

func (h *handler) logout(c *fiber.Ctx) error {
	req := h.request(c)
	return h.respond(c, req, pageIndex, h.env.Logout(req))
}

func (h *handler) settings(c *fiber.Ctx) error {
	req := h.request(c)
	return h.respond(c, req, pageSettings, h.env.Settings(req))
}

func (h *handler) updateSettings(c *fiber.Ctx) error {
	if !hasForm(c, "name") {
		return fiber.ErrBadRequest
	}
	req := h.request(c)
	return h.respond(c, req, pageSettings, h.env.UpdateSettings(req, c.FormValue("name")))
}
