package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/services"
	"github.com/ita-disc-inventory/backend/utils"
)

// GeneralController serves the read-only listings available to any
// authenticated user.
type GeneralController struct {
	orders *services.OrderService
	budget *services.BudgetService
}

func NewGeneralController(orders *services.OrderService, budget *services.BudgetService) *GeneralController {
	return &GeneralController{orders: orders, budget: budget}
}

// GetOrders -> GET /general/orders
func (gc *GeneralController) GetOrders(c *gin.Context) {
	var orders []models.Order
	err := services.WithRetries(func() error {
		var err error
		orders, err = gc.orders.List()
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetBudget -> GET /general/budget
func (gc *GeneralController) GetBudget(c *gin.Context) {
	var programs []models.Program
	err := services.WithRetries(func() error {
		var err error
		programs, err = gc.budget.ListPrograms()
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of programs", programs)
}
