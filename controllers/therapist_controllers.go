package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/services"
	"github.com/ita-disc-inventory/backend/utils"
)

type TherapistController struct {
	DB     *gorm.DB
	orders *services.OrderService
}

func NewTherapistController(db *gorm.DB, orders *services.OrderService) *TherapistController {
	return &TherapistController{DB: db, orders: orders}
}

// CreateOrder -> POST /therapist/order
// The requestor is always the authenticated caller, never a body field.
func (tc *TherapistController) CreateOrder(c *gin.Context) {
	var body struct {
		ProgramID        uint            `json:"program_id" binding:"required"`
		OrderLink        string          `json:"order_link" binding:"required"`
		ItemName         string          `json:"item_name"`
		PricePerUnit     decimal.Decimal `json:"price_per_unit"`
		Quantity         int             `json:"quantity" binding:"required"`
		TotalCost        decimal.Decimal `json:"total_cost" binding:"required"`
		PriorityLevel    string          `json:"priority_level"`
		RequestDate      string          `json:"request_date" binding:"required"`
		OrderDescription string          `json:"order_description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	requestorID := c.GetString("user_id")

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = tc.orders.Create(services.CreateOrderRequest{
			RequestorID:      requestorID,
			ProgramID:        body.ProgramID,
			OrderLink:        body.OrderLink,
			ItemName:         body.ItemName,
			PricePerUnit:     body.PricePerUnit,
			Quantity:         body.Quantity,
			TotalCost:        body.TotalCost,
			PriorityLevel:    body.PriorityLevel,
			RequestDate:      body.RequestDate,
			OrderDescription: body.OrderDescription,
		})
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "order created successfully", order)
}

// CancelOrder -> DELETE /therapist/order/:order_id
// Cancellation is a soft status change; the row stays for auditability.
func (tc *TherapistController) CancelOrder(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var order *models.Order
	err := services.WithRetries(func() error {
		var err error
		order, err = tc.orders.Cancel(orderID)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "order deleted successfully", order)
}

// UpdateSpecialization -> PUT /therapist/:user_id/specialization
func (tc *TherapistController) UpdateSpecialization(c *gin.Context) {
	userID := c.Param("user_id")

	var body struct {
		Specialization string `json:"specialization" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := tc.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("specialization", body.Specialization)
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondServiceError(c, services.ErrUserNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "specialization updated successfully", nil)
}
