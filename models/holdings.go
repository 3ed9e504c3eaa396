package models

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type Holding struct {
	ID            string          `json:"id" gorm:"primary_key" sql:"type:uuid;"`
	CreatedAt     time.Time       `json:"created_at"`
	UserID        string          `json:"user_id" gorm:"not null" sql:"type:uuid;"`
	StockID       string          `json:"stock_id" gorm:"not null" sql:"type:uuid;"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"not null" sql:"type:decimal(10,2);"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	PurchaseDate  time.Time       `json:"purchase_date" gorm:"not null"`
	User          *User           `json:"-" gorm:"ForeignKey:UserID"`
	Stock         Stock           `json:"-" gorm:"ForeignKey:StockID"`
}

func (h *Holding) BeforeCreate(scope *gorm.Scope) error {
	if h.ID == "" {
		h.ID = uuid.Must(uuid.NewV4()).String()
	}
	return scope.SetColumn("id", h.ID)
}

func (h *Holding) BeforeSave(scope *gorm.Scope) error {
	return h.Validate()
}

// Validate enforces the aggregation preconditions: a holding's
// investment (price x quantity) must be strictly positive.
func (h *Holding) Validate() error {
	if err := validation.Validate(
		h.Quantity,
		validation.Required,
		validation.Min(1),
	); err != nil {
		return fmt.Errorf("quantity must be a positive integer: %v", err)
	}

	if !h.PurchasePrice.GreaterThan(decimal.Zero) {
		return fmt.Errorf("purchase price must be greater than zero")
	}

	if h.PurchaseDate.IsZero() {
		return fmt.Errorf("purchase date is required")
	}

	return nil
}

// Investment is the capital deployed into the holding.
func (h *Holding) Investment() decimal.Decimal {
	return h.PurchasePrice.Mul(decimal.New(int64(h.Quantity), 0))
}
