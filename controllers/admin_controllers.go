package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/services"
	"github.com/ita-disc-inventory/backend/utils"
)

// AdminController exposes the order-approval workflow and user
// administration. Every workflow call runs under the retry wrapper so a
// transient store fault does not surface on the first hiccup.
type AdminController struct {
	DB     *gorm.DB
	orders *services.OrderService
	budget *services.BudgetService
}

func NewAdminController(db *gorm.DB, orders *services.OrderService, budget *services.BudgetService) *AdminController {
	return &AdminController{DB: db, orders: orders, budget: budget}
}

// ApproveOrder -> PUT /admin/approve/:order_id
func (ac *AdminController) ApproveOrder(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = ac.orders.Approve(orderID)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status updated to approved", order)
}

// DenyOrder -> PUT /admin/deny/:order_id
func (ac *AdminController) DenyOrder(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		ReasonForDenial string `json:"reason_for_denial"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = ac.orders.Deny(orderID, body.ReasonForDenial)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status updated to denied", order)
}

// RevertOrder -> PUT /admin/revert/:order_id
func (ac *AdminController) RevertOrder(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = ac.orders.Revert(orderID)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status updated to pending", order)
}

// AddTrackingNumber -> PUT /admin/tracking/:order_id
func (ac *AdminController) AddTrackingNumber(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		TrackingNumber string `json:"tracking_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = ac.orders.AddTracking(orderID, body.TrackingNumber)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tracking number added successfully", order)
}

// OrderArrived -> PUT /admin/arrived/:order_id
func (ac *AdminController) OrderArrived(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = ac.orders.MarkArrived(orderID)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status updated to arrived", order)
}

// OrderReady -> PUT /admin/ready/:order_id
func (ac *AdminController) OrderReady(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = ac.orders.MarkReady(orderID)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status updated to ready", order)
}

// UpdateBudget -> PUT /admin/budget/:program_id
func (ac *AdminController) UpdateBudget(c *gin.Context) {
	programID, ok := paramUint(c, "program_id")
	if !ok {
		return
	}

	var body struct {
		Budget decimal.Decimal `json:"budget"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var program *models.Program
	err := services.WithRetries(func() error {
		var err error
		program, err = ac.budget.Override(programID, body.Budget)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Budget added successfully", program)
}

// GetWeeklyOrders -> GET /admin/weekly
func (ac *AdminController) GetWeeklyOrders(c *gin.Context) {
	var orders []models.Order
	err := services.WithRetries(func() error {
		var err error
		orders, err = ac.orders.WeeklySummary()
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Weekly orders", orders)
}

// GetAllUsers -> GET /admin/users
func (ac *AdminController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := ac.DB.Order("created_at asc").Find(&users).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// UpdateUser -> PUT /admin/users/:user_id
// Only the allowlisted fields below are writable by admins; anything
// else in the payload is ignored by the typed request struct.
func (ac *AdminController) UpdateUser(c *gin.Context) {
	userID := c.Param("user_id")

	var body struct {
		Firstname      *string `json:"firstname"`
		Lastname       *string `json:"lastname"`
		PositionTitle  *string `json:"position_title"`
		Specialization *string `json:"specialization"`
		Approved       *bool   `json:"approved"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if body.Firstname != nil {
		updates["firstname"] = *body.Firstname
	}
	if body.Lastname != nil {
		updates["lastname"] = *body.Lastname
	}
	if body.PositionTitle != nil {
		if *body.PositionTitle != models.RoleTherapist && *body.PositionTitle != models.RoleAdmin {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid position_title %q", *body.PositionTitle))
			return
		}
		updates["position_title"] = *body.PositionTitle
	}
	if body.Specialization != nil {
		updates["specialization"] = *body.Specialization
	}
	if body.Approved != nil {
		updates["approved"] = *body.Approved
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("no updatable fields provided"))
		return
	}

	res := ac.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, services.ErrUserNotFound)
		return
	}

	var user models.User
	if err := ac.DB.First(&user, "id = ?", userID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}
