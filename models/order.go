package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status domain. Cancelled is terminal; every other transition is
// gated by the order service.
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusDenied    = "denied"
	OrderStatusArrived   = "arrived"
	OrderStatusReady     = "ready"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"order_id"`
	RequestorID      string          `gorm:"type:varchar(36);not null;index" json:"requestor_id"`
	Requestor        User            `gorm:"foreignKey:RequestorID" json:"requestor,omitempty"`
	ProgramID        uint            `gorm:"not null;index" json:"program_id"`
	Program          Program         `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	ItemID           uint            `gorm:"not null;index" json:"item_id"`
	Item             Item            `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	PriorityLevel    string          `gorm:"type:varchar(20)" json:"priority_level"`
	RequestDate      string          `gorm:"type:date" json:"request_date"`
	OrderDescription string          `gorm:"type:text" json:"order_description"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReasonForDenial  *string         `gorm:"type:text" json:"reason_for_denial,omitempty"`
	TrackingNumber   *string         `gorm:"type:varchar(255)" json:"tracking_number,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsTerminal reports whether no further lifecycle transitions are
// permitted on the order.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCancelled
}
