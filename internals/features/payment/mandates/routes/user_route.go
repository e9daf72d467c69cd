package routes

import (
	"github.com/gofiber/fiber/v2"

	mandateController "github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/controller"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/service"
	"github.com/ibnlanre/laumga-sub000/internals/middlewares"
)

// MandateUserRoutes mounts the self-service mandate lifecycle under the
// authenticated user group. Mutations sit behind the tighter rate limit
// because each one reaches the payment processor.
func MandateUserRoutes(user fiber.Router, svc *service.MandateService) {
	ctrl := mandateController.NewMandateController(svc)
	limiter := middlewares.MandateRateLimiter()

	mandates := user.Group("/mandates")
	mandates.Post("/", limiter, ctrl.Create)
	mandates.Get("/me", ctrl.GetMe)
	mandates.Patch("/me", limiter, ctrl.UpdateMe)
	mandates.Post("/me/pause", limiter, ctrl.PauseMe)
	mandates.Post("/me/reinstate", limiter, ctrl.ReinstateMe)
	mandates.Delete("/me", limiter, ctrl.CancelMe)
	mandates.Get("/me/transactions", ctrl.TransactionsMe)
}
