package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ita-disc-inventory/backend/models"
)

// ItemService deduplicates catalog items by their external order link.
type ItemService struct {
	db *gorm.DB
}

func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

// Resolve returns the item ID for orderLink, inserting a new item when
// the link has never been seen. First write wins: an existing item keeps
// its original price and name even if the caller supplies different
// values. The insert tolerates the unique-index conflict so concurrent
// submissions of the same link converge on one row.
func (s *ItemService) Resolve(orderLink string, pricePerUnit decimal.Decimal, itemName string) (uint, error) {
	var item models.Item
	err := s.db.Where("order_link = ?", orderLink).First(&item).Error
	if err == nil {
		return item.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup item by link: %w", err)
	}

	item = models.Item{
		OrderLink:    orderLink,
		PricePerUnit: pricePerUnit,
		ItemName:     itemName,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_link"}},
		DoNothing: true,
	}).Create(&item)
	if res.Error != nil {
		return 0, fmt.Errorf("insert item: %w", res.Error)
	}
	if res.RowsAffected > 0 && item.ID != 0 {
		return item.ID, nil
	}

	// Lost the insert race; fetch the winner's row.
	if err := s.db.Where("order_link = ?", orderLink).First(&item).Error; err != nil {
		return 0, fmt.Errorf("refetch item after conflict: %w", err)
	}
	return item.ID, nil
}

// GetByID fetches a single item.
func (s *ItemService) GetByID(itemID uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
