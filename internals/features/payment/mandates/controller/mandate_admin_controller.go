package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "github.com/ibnlanre/laumga-sub000/internals/helpers"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/service"
)

type MandateAdminController struct {
	Service *service.MandateService
}

func NewMandateAdminController(svc *service.MandateService) *MandateAdminController {
	return &MandateAdminController{Service: svc}
}

// GET /api/a/mandates?page=&per_page=
func (ctrl *MandateAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctrl.Service.List(c.UserContext(), paging.Limit, paging.Offset)
	if err != nil {
		return mapMandateError(c, err)
	}

	items := make([]dto.MandateListItem, 0, len(rows))
	for _, row := range rows {
		item := dto.MandateListItem{Mandate: dto.ToMandateResponse(row.Mandate)}
		if row.User != nil {
			item.User = &dto.UserSnapshotItem{
				UserID:   row.User.UserID.String(),
				Name:     row.User.UserName,
				Email:    row.User.UserEmail,
				PhotoURL: row.User.UserPhotoURL,
			}
		}
		items = append(items, item)
	}

	return helper.Success(c, "Mandates fetched", fiber.Map{
		"mandates":   items,
		"pagination": helper.BuildPagination(paging, total, len(items)),
	})
}

// POST /api/a/mandates/:user_id/debit
func (ctrl *MandateAdminController) Debit(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var body dto.DebitMandateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	tx, err := ctrl.Service.Debit(c.UserContext(), userID, body)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Debit executed", dto.ToTransactionResponse(*tx))
}

// GET /api/a/mandates/:user_id/transactions
func (ctrl *MandateAdminController) Transactions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	list, err := ctrl.Service.Transactions(c.UserContext(), userID)
	if err != nil {
		return mapMandateError(c, err)
	}
	return helper.Success(c, "Transactions fetched", dto.ToTransactionResponses(list))
}
