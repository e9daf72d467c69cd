package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ibnlanre/laumga-sub000/internals/configs"
	bankRoutes "github.com/ibnlanre/laumga-sub000/internals/features/payment/banks/routes"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	mandateRepository "github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/repository"
	mandateRoutes "github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/routes"
	mandateService "github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/service"
	partnerRepository "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/repository"
	partnerRoutes "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/routes"
	partnerService "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/service"
	userRepository "github.com/ibnlanre/laumga-sub000/internals/features/users/repository"
	authMiddleware "github.com/ibnlanre/laumga-sub000/internals/middlewares/auth"
)

// SetupRoutes assembles the stores and services from their constructors
// and mounts the three route groups:
//
//	/api/public — no auth (bank list, health)
//	/api/u      — JWT-authenticated members
//	/api/a      — JWT + admin role
func SetupRoutes(app *fiber.App, db *gorm.DB, gw *gateway.Client) {
	partnerStore := partnerRepository.NewPartnerStore(db)
	partnerSvc := partnerService.NewPartnerService(partnerStore, gw)

	mandateStore := mandateRepository.NewMandateStore(db)
	txStore := mandateRepository.NewTransactionStore(db)
	users := userRepository.NewUserProfileRepo(db)
	mandateSvc := mandateService.NewMandateService(mandateStore, txStore, gw, partnerStore, users, gw.Currency())

	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	public := app.Group("/api/public")
	user := app.Group("/api/u", auth)
	admin := app.Group("/api/a", auth, authMiddleware.RequireAdmin())

	log.Println("[INFO] Mounting payment routes...")
	bankRoutes.BankPublicRoutes(public, gw)
	mandateRoutes.MandateUserRoutes(user, mandateSvc)
	mandateRoutes.MandateAdminRoutes(admin, mandateSvc)
	partnerRoutes.PaymentPartnerAdminRoutes(admin, partnerSvc)
}
