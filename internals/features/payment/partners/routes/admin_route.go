package routes

import (
	"github.com/gofiber/fiber/v2"

	partnerController "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/controller"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/service"
)

// PaymentPartnerAdminRoutes mounts the registry CRUD under the admin group.
func PaymentPartnerAdminRoutes(admin fiber.Router, svc *service.PartnerService) {
	ctrl := partnerController.NewPaymentPartnerController(svc)

	partners := admin.Group("/payment-partners")
	partners.Post("/", ctrl.Create)
	partners.Get("/", ctrl.List)
	partners.Get("/:id", ctrl.GetByID)
	partners.Patch("/:id", ctrl.Update)
	partners.Delete("/:id", ctrl.Delete)
}
