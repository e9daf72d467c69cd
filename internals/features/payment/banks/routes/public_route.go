package routes

import (
	"github.com/gofiber/fiber/v2"

	bankController "github.com/ibnlanre/laumga-sub000/internals/features/payment/banks/controller"
)

// BankPublicRoutes mounts the bank list for the mandate setup form. No
// auth: the form is shown before login on the donation page.
func BankPublicRoutes(public fiber.Router, gw bankController.BankLister) {
	ctrl := bankController.NewBankController(gw)
	public.Get("/banks", ctrl.List)
}
