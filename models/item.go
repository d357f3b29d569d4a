package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry deduplicated by its external order link.
// The unique index on order_link backs the insert-or-reuse resolution:
// price and name are fixed by whichever order references the link first.
type Item struct {
	ID           uint            `gorm:"primaryKey" json:"item_id"`
	OrderLink    string          `gorm:"type:varchar(512);uniqueIndex;not null" json:"order_link"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_unit"`
	ItemName     string          `gorm:"type:varchar(255)" json:"item_name"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DisplayName mirrors the fallback used in outbound email bodies when an
// item was submitted without a name.
func (i *Item) DisplayName() string {
	if i.ItemName == "" {
		return "<no-name-provided>"
	}
	return i.ItemName
}
