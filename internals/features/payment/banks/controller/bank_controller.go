package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	helper "github.com/ibnlanre/laumga-sub000/internals/helpers"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
)

// BankLister is the slice of the gateway client the bank endpoint needs.
type BankLister interface {
	ListBanks(ctx context.Context) ([]gateway.BankOption, error)
}

type BankController struct {
	Gateway BankLister
}

func NewBankController(gw BankLister) *BankController {
	return &BankController{Gateway: gw}
}

// GET /api/public/banks
//
// Feeds the bank select on the mandate setup form: only direct-debit
// capable banks, already shaped as value/label pairs.
func (ctrl *BankController) List(c *fiber.Ctx) error {
	banks, err := ctrl.Gateway.ListBanks(c.UserContext())
	if err != nil {
		var pe *gateway.ProcessorError
		if errors.As(err, &pe) {
			return helper.Error(c, fiber.StatusBadGateway, pe.Message)
		}
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Banks fetched", banks)
}
