package routes

import (
	"github.com/gofiber/fiber/v2"

	mandateController "github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/controller"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/service"
	"github.com/ibnlanre/laumga-sub000/internals/middlewares"
)

// MandateAdminRoutes mounts the back-office listing and the manual debit
// trigger under the admin group.
func MandateAdminRoutes(admin fiber.Router, svc *service.MandateService) {
	ctrl := mandateController.NewMandateAdminController(svc)

	mandates := admin.Group("/mandates")
	mandates.Get("/", ctrl.List)
	mandates.Get("/:user_id/transactions", ctrl.Transactions)
	mandates.Post("/:user_id/debit", middlewares.MandateRateLimiter(), ctrl.Debit)
}
