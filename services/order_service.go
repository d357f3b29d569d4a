package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/utils"
)

// OrderService owns the order lifecycle. Transitions follow a strict
// table (see Approve/Deny/Revert/...); every budget change rides in the
// same transaction as its order-status write so a failure in either
// leaves both untouched.
type OrderService struct {
	db       *gorm.DB
	budget   *BudgetService
	items    *ItemService
	notifier *Notifier
}

func NewOrderService(db *gorm.DB, budget *BudgetService, items *ItemService, notifier *Notifier) *OrderService {
	return &OrderService{
		db:       db,
		budget:   budget,
		items:    items,
		notifier: notifier,
	}
}

// CreateOrderRequest carries the fields a therapist submits for a new
// order. TotalCost is fixed here and never recomputed.
type CreateOrderRequest struct {
	RequestorID      string
	ProgramID        uint
	OrderLink        string
	ItemName         string
	PricePerUnit     decimal.Decimal
	Quantity         int
	TotalCost        decimal.Decimal
	PriorityLevel    string
	RequestDate      string
	OrderDescription string
}

// Create resolves the catalog item for the order link and inserts the
// order with status pending. The requestor must exist and be approved.
func (s *OrderService) Create(req CreateOrderRequest) (*models.Order, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", req.RequestorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetch requestor: %w", err)
	}
	if !user.Approved {
		return nil, ErrUserNotApproved
	}

	itemID, err := s.items.Resolve(req.OrderLink, req.PricePerUnit, req.ItemName)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		RequestorID:      req.RequestorID,
		ProgramID:        req.ProgramID,
		ItemID:           itemID,
		Quantity:         req.Quantity,
		TotalCost:        req.TotalCost,
		PriorityLevel:    req.PriorityLevel,
		RequestDate:      req.RequestDate,
		OrderDescription: req.OrderDescription,
		Status:           models.OrderStatusPending,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &order, nil
}

// Approve moves a pending or denied order to approved and debits the
// program budget by the order's total cost. Insufficient budget aborts
// with no writes. The requestor is emailed after the transaction
// commits; email failure never fails the approval.
func (s *OrderService) Approve(orderID uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := fetchOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusDenied {
			return ErrInvalidTransition
		}
		if err := s.budget.WithTx(tx).Debit(order.ProgramID, order.TotalCost); err != nil {
			return err
		}
		return transition(tx, orderID, []string{models.OrderStatusPending, models.OrderStatusDenied}, map[string]interface{}{
			"status":            models.OrderStatusApproved,
			"reason_for_denial": nil,
		})
	})
	if err != nil {
		return nil, err
	}

	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderApproved(order.Requestor.Email, &order.Item)
	return order, nil
}

// Deny marks the order denied and stores the reason verbatim. Denying a
// currently approved order credits its cost back so the program budget
// keeps reflecting only approved orders.
func (s *OrderService) Deny(orderID uint, reason string) (*models.Order, error) {
	allowed := []string{models.OrderStatusPending, models.OrderStatusApproved, models.OrderStatusDenied}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := fetchOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !statusIn(order.Status, allowed) {
			return ErrInvalidTransition
		}
		if order.Status == models.OrderStatusApproved {
			if err := s.budget.WithTx(tx).Credit(order.ProgramID, order.TotalCost); err != nil {
				return err
			}
		}
		return transition(tx, orderID, allowed, map[string]interface{}{
			"status":            models.OrderStatusDenied,
			"reason_for_denial": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderDenied(order.Requestor.Email, &order.Item, reason)
	return order, nil
}

// Revert returns an approved or denied order to pending. Reverting an
// approved order credits exactly the amount the approval debited;
// reverting a denied order touches no budget. Any other status is
// rejected.
func (s *OrderService) Revert(orderID uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := fetchOrder(tx, orderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case models.OrderStatusApproved:
			if err := s.budget.WithTx(tx).Credit(order.ProgramID, order.TotalCost); err != nil {
				return err
			}
		case models.OrderStatusDenied:
			// No budget change: a denied order never debited anything.
		default:
			return ErrInvalidTransition
		}
		return transition(tx, orderID, []string{models.OrderStatusApproved, models.OrderStatusDenied}, map[string]interface{}{
			"status":            models.OrderStatusPending,
			"reason_for_denial": nil,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// Cancel soft-deletes the order. Cancelled is terminal, so cancelling
// twice is rejected. The order row itself is never deleted.
func (s *OrderService) Cancel(orderID uint) (*models.Order, error) {
	if err := s.guardNotCancelled(orderID); err != nil {
		return nil, err
	}
	allowed := []string{
		models.OrderStatusPending,
		models.OrderStatusApproved,
		models.OrderStatusDenied,
		models.OrderStatusArrived,
		models.OrderStatusReady,
	}
	if err := transition(s.db, orderID, allowed, map[string]interface{}{
		"status": models.OrderStatusCancelled,
	}); err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// AddTracking attaches a carrier tracking number without changing the
// order's status. Repeating the same value is a harmless overwrite.
func (s *OrderService) AddTracking(orderID uint, trackingNumber string) (*models.Order, error) {
	if err := s.guardExists(orderID); err != nil {
		return nil, err
	}
	// The cancellation check rides on the update itself so a concurrent
	// cancel cannot slip in between a read and the write.
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status <> ?", orderID, models.OrderStatusCancelled).
		Update("tracking_number", trackingNumber)
	if res.Error != nil {
		return nil, fmt.Errorf("update tracking number: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}
	return s.Get(orderID)
}

// MarkArrived moves an approved order to arrived.
func (s *OrderService) MarkArrived(orderID uint) (*models.Order, error) {
	if err := s.guardExists(orderID); err != nil {
		return nil, err
	}
	if err := transition(s.db, orderID, []string{models.OrderStatusApproved}, map[string]interface{}{
		"status": models.OrderStatusArrived,
	}); err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// MarkReady moves an arrived order to ready and emails the requestor
// that it can be picked up.
func (s *OrderService) MarkReady(orderID uint) (*models.Order, error) {
	if err := s.guardExists(orderID); err != nil {
		return nil, err
	}
	if err := transition(s.db, orderID, []string{models.OrderStatusArrived}, map[string]interface{}{
		"status": models.OrderStatusReady,
	}); err != nil {
		return nil, err
	}

	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderReady(order.Requestor.Email, &order.Item)
	return order, nil
}

// Get fetches one order with its requestor, program, and item loaded.
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Requestor").Preload("Program").Preload("Item").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns all orders newest-first with their associations, the
// read-only listing used by both roles.
func (s *OrderService) List() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Requestor").Preload("Program").Preload("Item").
		Order("request_date desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// WeeklySummary gathers the last seven days of orders and emails the
// digest to every admin. The orders are also returned to the caller.
func (s *OrderService) WeeklySummary() ([]models.Order, error) {
	today := time.Now()
	start := today.AddDate(0, 0, -7)

	var orders []models.Order
	err := s.db.Preload("Item").
		Where("request_date >= ? AND request_date <= ?",
			start.Format("2006-01-02"), today.Format("2006-01-02")).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	var admins []models.User
	if err := s.db.Where("position_title = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		utils.ErrorLogger.Printf("weekly summary: fetching admin emails: %v", err)
		return orders, nil
	}
	emails := make([]string, 0, len(admins))
	for _, admin := range admins {
		emails = append(emails, admin.Email)
	}
	s.notifier.WeeklySummary(emails, orders)

	return orders, nil
}

func (s *OrderService) guardExists(orderID uint) error {
	_, err := fetchOrder(s.db, orderID)
	return err
}

func (s *OrderService) guardNotCancelled(orderID uint) error {
	order, err := fetchOrder(s.db, orderID)
	if err != nil {
		return err
	}
	if order.IsTerminal() {
		return ErrInvalidTransition
	}
	return nil
}

func fetchOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("fetch order %d: %w", orderID, err)
	}
	return &order, nil
}

// transition performs the status write as a conditional update: if a
// concurrent request already moved the order out of an allowed state,
// zero rows are affected and the transition is rejected.
func transition(tx *gorm.DB, orderID uint, allowedFrom []string, updates map[string]interface{}) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, allowedFrom).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func statusIn(status string, allowed []string) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
