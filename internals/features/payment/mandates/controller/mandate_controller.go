package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	helper "github.com/ibnlanre/laumga-sub000/internals/helpers"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/service"
	partnerService "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/service"
)

var validate = validator.New()

type MandateController struct {
	Service *service.MandateService
}

func NewMandateController(svc *service.MandateService) *MandateController {
	return &MandateController{Service: svc}
}

func actorFromToken(c *fiber.Ctx) (service.Actor, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{
		ID:    userID,
		Name:  helper.GetUserNameFromToken(c),
		Photo: helper.GetUserPhotoFromToken(c),
	}, nil
}

// POST /api/u/mandates
func (ctrl *MandateController) Create(c *fiber.Ctx) error {
	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.CreateMandateRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mandate, err := ctrl.Service.Create(c.UserContext(), actor, body)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mandate initiated", dto.ToMandateResponse(*mandate))
}

// GET /api/u/mandates/me
//
// Absence is not an error here: a user with no mandate (or whose stale
// authorization was just cleaned up) gets a success envelope with null
// data, so the frontend shows the setup form instead of an error page.
func (ctrl *MandateController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	mandate, err := ctrl.Service.Get(c.UserContext(), userID)
	if err != nil {
		return mapMandateError(c, err)
	}
	if mandate == nil {
		return helper.Success(c, "No mandate found", nil)
	}
	return helper.Success(c, "Mandate fetched", dto.ToMandateResponse(*mandate))
}

// PATCH /api/u/mandates/me
func (ctrl *MandateController) UpdateMe(c *fiber.Ctx) error {
	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateMandateRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mandate, err := ctrl.Service.Update(c.UserContext(), actor, body)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.Success(c, "Mandate updated", dto.ToMandateResponse(*mandate))
}

// POST /api/u/mandates/me/pause
func (ctrl *MandateController) PauseMe(c *fiber.Ctx) error {
	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	mandate, err := ctrl.Service.Pause(c.UserContext(), actor)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.Success(c, "Mandate paused", dto.ToMandateResponse(*mandate))
}

// POST /api/u/mandates/me/reinstate
func (ctrl *MandateController) ReinstateMe(c *fiber.Ctx) error {
	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	mandate, err := ctrl.Service.Reinstate(c.UserContext(), actor)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.Success(c, "Mandate reinstated", dto.ToMandateResponse(*mandate))
}

// DELETE /api/u/mandates/me
func (ctrl *MandateController) CancelMe(c *fiber.Ctx) error {
	actor, err := actorFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.Service.Cancel(c.UserContext(), actor); err != nil {
		return mapMandateError(c, err)
	}
	return helper.Success(c, "Mandate cancelled", nil)
}

// GET /api/u/mandates/me/transactions
func (ctrl *MandateController) TransactionsMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	list, err := ctrl.Service.Transactions(c.UserContext(), userID)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.Success(c, "Transactions fetched", dto.ToTransactionResponses(list))
}

func mapMandateError(c *fiber.Ctx, err error) error {
	var pe *gateway.ProcessorError
	switch {
	case errors.Is(err, service.ErrMandateNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Mandate not found")
	case errors.Is(err, service.ErrMandateExists):
		return helper.Error(c, fiber.StatusConflict, "An active mandate already exists for this user")
	case errors.Is(err, service.ErrMissingReference),
		errors.Is(err, service.ErrMandateNotChargeable),
		errors.Is(err, partnerService.ErrNoActivePartners),
		errors.Is(err, partnerService.ErrOverAllocation):
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
