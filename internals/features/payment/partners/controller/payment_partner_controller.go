package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "github.com/ibnlanre/laumga-sub000/internals/helpers"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/service"
)

var validate = validator.New()

type PaymentPartnerController struct {
	Service *service.PartnerService
}

func NewPaymentPartnerController(svc *service.PartnerService) *PaymentPartnerController {
	return &PaymentPartnerController{Service: svc}
}

// POST /api/a/payment-partners
func (ctrl *PaymentPartnerController) Create(c *fiber.Ctx) error {
	var body dto.CreatePaymentPartnerRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	partner, err := ctrl.Service.Create(c.UserContext(), body)
	if err != nil {
		return mapPartnerError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment partner created", dto.ToPaymentPartnerResponse(*partner))
}

// GET /api/a/payment-partners
func (ctrl *PaymentPartnerController) List(c *fiber.Ctx) error {
	partners, err := ctrl.Service.List(c.UserContext())
	if err != nil {
		return mapPartnerError(c, err)
	}
	return helper.Success(c, "Payment partners fetched", dto.ToPaymentPartnerResponses(partners))
}

// GET /api/a/payment-partners/:id
func (ctrl *PaymentPartnerController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid partner id")
	}
	partner, err := ctrl.Service.Get(c.UserContext(), id)
	if err != nil {
		return mapPartnerError(c, err)
	}
	return helper.Success(c, "Payment partner fetched", dto.ToPaymentPartnerResponse(*partner))
}

// PATCH /api/a/payment-partners/:id
func (ctrl *PaymentPartnerController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid partner id")
	}
	var body dto.UpdatePaymentPartnerRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	partner, err := ctrl.Service.Update(c.UserContext(), id, body)
	if err != nil {
		return mapPartnerError(c, err)
	}
	return helper.Success(c, "Payment partner updated", dto.ToPaymentPartnerResponse(*partner))
}

// DELETE /api/a/payment-partners/:id
func (ctrl *PaymentPartnerController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid partner id")
	}
	if err := ctrl.Service.Delete(c.UserContext(), id); err != nil {
		return mapPartnerError(c, err)
	}
	return helper.Success(c, "Payment partner deleted", nil)
}

func mapPartnerError(c *fiber.Ctx, err error) error {
	var pe *gateway.ProcessorError
	switch {
	case errors.Is(err, service.ErrPartnerNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Payment partner not found")
	case errors.Is(err, service.ErrPercentageOverflow):
		return helper.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &pe):
		if pe.Retryable() {
			return helper.Error(c, fiber.StatusBadGateway, pe.Message)
		}
		return helper.Error(c, fiber.StatusUnprocessableEntity, pe.Message)
	default:
		return helper.FromFiberError(c, err)
	}
}
