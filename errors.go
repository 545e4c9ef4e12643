package watchlist

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/api/webui"
	"github.com/go-watchlist/watchlist/controller"
)

// handleError logs unexpected errors and renders the matching error page
func handleError(env *controller.Env, cookieName string) fiber.ErrorHandler {
	render := webui.ErrorHandler(env, cookieName)
	return func(ctx *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) || e.Code >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(
				log.Fields{
					"method":     ctx.Method(),
					"path":       ctx.Path(),
					"request_id": ctx.GetRespHeader(fiber.HeaderXRequestID),
				},
			).Error("request failed")
		}
		return render(ctx, err)
	}
}
